package triage

import (
	"context"
	"fmt"
	"time"

	"github.com/zjy-dev/evmfuzz/internal/logger"
)

// Provider selects which LLM backend NewClient builds.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// NewClient builds the triage client named by provider. An unrecognized
// provider returns a nil Client and an error — the caller is expected to
// treat that as "enrichment disabled", never as a reason to abort the run.
func NewClient(provider Provider, apiKey, model, endpoint string) (Client, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey, model, endpoint), nil
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey, model, endpoint), nil
	default:
		return nil, fmt.Errorf("triage: unknown provider %q", provider)
	}
}

const narrateTimeout = 20 * time.Second

// Enrich asks client to narrate oracleKind against testcase and returns the
// note, or an empty string if the client is nil or the call fails. It never
// returns an error: callers attach Enrich's result straight to a report
// field, with no branch for "enrichment failed" to handle.
func Enrich(client Client, oracleKind, testcase string) string {
	if client == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), narrateTimeout)
	defer cancel()

	note, err := client.Narrate(ctx, oracleKind, testcase)
	if err != nil {
		logger.Debug("triage: narration skipped for %s: %v", oracleKind, err)
		return ""
	}
	return note
}
