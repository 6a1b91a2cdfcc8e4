package triage

import (
	"context"
	"errors"
	"testing"
)

type fakeClient struct {
	note string
	err  error
	calls int
}

func (f *fakeClient) Narrate(ctx context.Context, oracleKind, testcase string) (string, error) {
	f.calls++
	return f.note, f.err
}

func TestEnrichReturnsNoteOnSuccess(t *testing.T) {
	fc := &fakeClient{note: "likely a reentrant withdraw before balance update"}
	got := Enrich(fc, "REENTRANCY", `{"to":"0x1"}`)
	if got != fc.note {
		t.Fatalf("expected note %q, got %q", fc.note, got)
	}
	if fc.calls != 1 {
		t.Fatalf("expected exactly one call, got %d", fc.calls)
	}
}

func TestEnrichSwallowsErrorsAndReturnsEmptyNote(t *testing.T) {
	fc := &fakeClient{err: errors.New("rate limited")}
	got := Enrich(fc, "GASLESS", `{}`)
	if got != "" {
		t.Fatalf("expected empty note on error, got %q", got)
	}
}

func TestEnrichWithNilClientIsANoOp(t *testing.T) {
	if got := Enrich(nil, "GASLESS", `{}`); got != "" {
		t.Fatalf("expected empty note for nil client, got %q", got)
	}
}

func TestNewClientRejectsUnknownProvider(t *testing.T) {
	if _, err := NewClient(Provider("bogus"), "key", "model", ""); err == nil {
		t.Fatal("expected an error for an unknown provider")
	}
}

func TestNewClientBuildsOpenAIAndAnthropicClients(t *testing.T) {
	if c, err := NewClient(ProviderOpenAI, "key", "gpt-4o-mini", ""); err != nil || c == nil {
		t.Fatalf("expected a usable openai client, got %v, err=%v", c, err)
	}
	if c, err := NewClient(ProviderAnthropic, "key", "", ""); err != nil || c == nil {
		t.Fatalf("expected a usable anthropic client, got %v, err=%v", c, err)
	}
}
