package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderOpenAI, config.Provider)
	assert.Equal(t, DefaultOpenAIModel, config.Model)
	assert.Equal(t, 60*time.Second, config.Timeout)
	assert.Equal(t, 2, config.MaxRetries)
}

func TestDefaultGeminiConfig(t *testing.T) {
	config := DefaultGeminiConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, DefaultGeminiModel, config.Model)
	assert.Equal(t, DefaultTimeout, config.Timeout)
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel("text-davinci-002")

	assert.Equal(t, DefaultOpenAIModel, config.Model, "original should be unchanged")
	assert.Equal(t, "text-davinci-002", newConfig.Model)
	assert.Equal(t, config.Timeout, newConfig.Timeout)
}

func TestModelFor(t *testing.T) {
	assert.Equal(t, "override", modelFor(CompletionRequest{Model: "override"}, DefaultConfig()))
	assert.Equal(t, DefaultOpenAIModel, modelFor(CompletionRequest{}, DefaultConfig()))
	assert.Equal(t, DefaultGeminiModel, modelFor(CompletionRequest{}, &Config{Provider: ProviderGemini}))
}

func TestDefaultSampling(t *testing.T) {
	sampling := DefaultSampling()
	assert.Equal(t, 0.0, sampling.Temperature)
	assert.Equal(t, 1.0, sampling.TopP)
	assert.Equal(t, 0.0, sampling.FrequencyPenalty)
	assert.Equal(t, 0.0, sampling.PresencePenalty)
}

type statusError struct{ code int }

func (e statusError) Error() string { return fmt.Sprintf("status %d", e.code) }

func statusOfTest(err error) int {
	var se statusError
	if errors.As(err, &se) {
		return se.code
	}
	return 0
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantStatus    int
		wantRetryable bool
	}{
		{name: "rate limited", err: statusError{429}, wantStatus: 429, wantRetryable: true},
		{name: "server error", err: statusError{500}, wantStatus: 500, wantRetryable: true},
		{name: "bad gateway wrapped", err: fmt.Errorf("call: %w", statusError{502}), wantStatus: 502, wantRetryable: true},
		{name: "unauthorized", err: statusError{401}, wantStatus: 401, wantRetryable: false},
		{name: "bad request", err: statusError{400}, wantStatus: 400, wantRetryable: false},
		{name: "deadline", err: context.DeadlineExceeded, wantRetryable: true},
		{name: "canceled", err: context.Canceled, wantRetryable: false},
		{name: "network", err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}, wantRetryable: true},
		{name: "other", err: errors.New("no choices in response"), wantRetryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, retryable := classify(tt.err, statusOfTest)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantRetryable, retryable)
		})
	}
}

func TestAPICallError(t *testing.T) {
	cause := errors.New("boom")
	err := &APICallError{Provider: ProviderOpenAI, StatusCode: 503, Attempts: 3, Message: "completion request failed", Cause: cause}

	assert.Contains(t, err.Error(), "status 503")
	assert.Contains(t, err.Error(), "3 attempts")
	assert.ErrorIs(t, err, cause)
}

func TestWithJitter(t *testing.T) {
	for i := 0; i < 50; i++ {
		d := withJitter(100 * time.Millisecond)
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.Less(t, d, 150*time.Millisecond)
	}
	assert.Equal(t, time.Duration(1), withJitter(1))
}
