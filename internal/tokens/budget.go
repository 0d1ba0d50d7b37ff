package tokens

import (
	"context"
	"fmt"
	"strings"
)

// MinCompletionTokens is the smallest completion ever requested. When the prompt
// fills the window we still send one token and let the API reject the request.
const MinCompletionTokens = 1

// DefaultContextWindow applies to models missing from the window table.
const DefaultContextWindow = 2049

// contextWindows maps completion models to their combined prompt+completion limit.
var contextWindows = map[string]int{
	"text-ada-001":           2049,
	"text-babbage-001":       2049,
	"text-curie-001":         2049,
	"text-davinci-001":       2049,
	"text-davinci-002":       4097,
	"text-davinci-003":       4097,
	"gpt-3.5-turbo-instruct": 4096,
	"davinci-002":            16384,
	"babbage-002":            16384,
}

// windowPrefixes covers model families whose names carry a version suffix.
var windowPrefixes = []struct {
	prefix string
	window int
}{
	{"gpt-3.5-turbo-instruct", 4096},
	{"gemini-1.5", 1048576},
	{"gemini-2", 1048576},
}

// ContextWindow returns the context window of a model.
func ContextWindow(model string) int {
	if window, ok := contextWindows[model]; ok {
		return window
	}
	for _, p := range windowPrefixes {
		if strings.HasPrefix(model, p.prefix) {
			return p.window
		}
	}
	return DefaultContextWindow
}

// WarningKind classifies why the completion allowance differs from the request.
type WarningKind string

const (
	// WarningReduced means the request was lowered to fit the window.
	WarningReduced WarningKind = "reduced"
	// WarningExhausted means the prompt alone fills the window.
	WarningExhausted WarningKind = "exhausted"
)

// Warning reports a completion request that was silently reduced. It is not an error.
type Warning struct {
	Kind          WarningKind
	PromptTokens  int
	ContextWindow int
	Requested     int
	Allowed       int
}

func (w *Warning) String() string {
	if w.Kind == WarningExhausted {
		return fmt.Sprintf("prompt (%d tokens) leaves no room in the %d token context window; requesting %d",
			w.PromptTokens, w.ContextWindow, w.Allowed)
	}
	return fmt.Sprintf("max tokens lowered from %d to %d to fit the %d token context window",
		w.Requested, w.Allowed, w.ContextWindow)
}

// Budget is the sizing decision for one completion request.
type Budget struct {
	Estimator     string
	PromptTokens  int
	ContextWindow int
	Requested     int
	MaxTokens     int
	Warning       *Warning
}

// Allowance computes min(contextWindow - promptTokens, requested), clamped to
// MinCompletionTokens. A warning is attached whenever the result is below requested.
func Allowance(promptTokens, contextWindow, requested int) Budget {
	budget := Budget{
		PromptTokens:  promptTokens,
		ContextWindow: contextWindow,
		Requested:     requested,
	}

	available := contextWindow - promptTokens
	allowed := min(available, requested)
	if allowed < MinCompletionTokens {
		allowed = MinCompletionTokens
	}
	budget.MaxTokens = allowed

	switch {
	case available <= 0:
		budget.Warning = &Warning{Kind: WarningExhausted, PromptTokens: promptTokens, ContextWindow: contextWindow, Requested: requested, Allowed: allowed}
	case allowed < requested:
		budget.Warning = &Warning{Kind: WarningReduced, PromptTokens: promptTokens, ContextWindow: contextWindow, Requested: requested, Allowed: allowed}
	}

	return budget
}

// Budgeter sizes completion requests for prompts.
type Budgeter struct {
	// Counter estimates prompt tokens. Nil means Heuristic.
	Counter Counter
	// Fallback is used when Counter fails, e.g. no vocabulary for the model. Nil disables fallback.
	Fallback Counter
	// Windows overrides the built-in context window table.
	Windows map[string]int
}

// NewBudgeter returns a Budgeter using the exact counter when exact is true,
// falling back to the heuristic estimate.
func NewBudgeter(exact bool) *Budgeter {
	if exact {
		return &Budgeter{Counter: NewTiktoken(), Fallback: Heuristic{}}
	}
	return &Budgeter{Counter: Heuristic{}}
}

// NewProviderBudgeter counts with the provider's own tokenizer endpoint,
// falling back to the heuristic estimate when the call fails.
func NewProviderBudgeter(counter Counter) *Budgeter {
	return &Budgeter{Counter: counter, Fallback: Heuristic{}}
}

// Window returns the context window for a model, honoring overrides.
func (b *Budgeter) Window(model string) int {
	if window, ok := b.Windows[model]; ok && window > 0 {
		return window
	}
	return ContextWindow(model)
}

// Plan estimates the prompt size and computes the allowance for a request.
func (b *Budgeter) Plan(ctx context.Context, prompt, model string, requested int) (Budget, error) {
	counter := b.Counter
	if counter == nil {
		counter = Heuristic{}
	}

	promptTokens, err := counter.Count(ctx, prompt, model)
	if err != nil {
		if b.Fallback == nil {
			return Budget{}, fmt.Errorf("failed to count prompt tokens with %s: %w", counter.Name(), err)
		}
		counter = b.Fallback
		promptTokens, err = counter.Count(ctx, prompt, model)
		if err != nil {
			return Budget{}, fmt.Errorf("failed to count prompt tokens with %s: %w", counter.Name(), err)
		}
	}

	budget := Allowance(promptTokens, b.Window(model), requested)
	budget.Estimator = counter.Name()
	return budget, nil
}
