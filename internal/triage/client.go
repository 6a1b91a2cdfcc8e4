// Package triage provides best-effort LLM narrative enrichment for
// vuln-fuzz reports: given an oracle kind that fired and the testcase that
// triggered it, it asks an LLM for a short human-readable explanation to
// attach to the report's notes field. It never sits on the interest-filter
// hot path, and its failures never propagate — a report with an empty note
// is still a complete report.
package triage

import "context"

// Client narrates why an oracle kind most likely fired for a given
// testcase. Implementations must treat network/API errors as non-fatal to
// the caller — Narrate's own error return exists purely so the caller can
// log and fall back to an empty note.
type Client interface {
	Narrate(ctx context.Context, oracleKind, testcase string) (string, error)
}

const systemPrompt = "You are a smart-contract security analyst. Given the " +
	"name of a vulnerability oracle and the transaction sequence that " +
	"triggered it, explain in two or three sentences why the oracle most " +
	"likely fired. Be specific about the call pattern; do not restate the " +
	"oracle name."

func userPrompt(oracleKind, testcase string) string {
	return "Oracle: " + oracleKind + "\nTriggering testcase:\n" + testcase
}
