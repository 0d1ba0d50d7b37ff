// Package tokens estimates prompt sizes and sizes completion requests to fit a model's context window.
package tokens

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// WordTokenRatio approximates how many tokens an English word costs.
const WordTokenRatio = 1.6

// Counter estimates the token count of a text for a model.
type Counter interface {
	Count(ctx context.Context, text, model string) (int, error)
	// Name identifies the counting strategy in logs.
	Name() string
}

// Heuristic estimates tokens as round(words × WordTokenRatio). It never fails.
type Heuristic struct{}

// Count implements Counter.
func (Heuristic) Count(_ context.Context, text, _ string) (int, error) {
	return HeuristicCount(text), nil
}

// Name implements Counter.
func (Heuristic) Name() string {
	return "heuristic"
}

// HeuristicCount returns round(len(words) × WordTokenRatio).
func HeuristicCount(text string) int {
	return int(math.Round(float64(len(strings.Fields(text))) * WordTokenRatio))
}

// Tiktoken counts tokens exactly with the model's BPE vocabulary.
// Encodings are loaded once per model and shared.
type Tiktoken struct {
	mu        sync.Mutex
	encodings map[string]*tiktoken.Tiktoken
}

// NewTiktoken creates an exact counter.
func NewTiktoken() *Tiktoken {
	return &Tiktoken{encodings: make(map[string]*tiktoken.Tiktoken)}
}

// Count implements Counter.
func (t *Tiktoken) Count(_ context.Context, text, model string) (int, error) {
	enc, err := t.encoding(model)
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// Name implements Counter.
func (t *Tiktoken) Name() string {
	return "tiktoken"
}

func (t *Tiktoken) encoding(model string) (*tiktoken.Tiktoken, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if enc, ok := t.encodings[model]; ok {
		return enc, nil
	}

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("no tokenizer for model %s: %w", model, err)
	}
	t.encodings[model] = enc
	return enc, nil
}
