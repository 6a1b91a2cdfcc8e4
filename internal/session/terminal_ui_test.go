package session

import (
	"strings"
	"testing"
)

func TestTerminalUIRenderWhenDisabledIsNoop(t *testing.T) {
	ui := NewTerminalUI()
	ui.SetEnabled(false)
	ui.SetMetrics(&Metrics{TotalExecs: 10})
	ui.Render() // must not panic, must not print

	if ui.renderLines != 0 {
		t.Fatalf("expected no render lines tracked while disabled, got %d", ui.renderLines)
	}
}

func TestTerminalUIBuildDisplayContainsKeyFields(t *testing.T) {
	ui := NewTerminalUI()
	ui.SetMetrics(&Metrics{
		TotalExecs:      100,
		BranchesCovered: 4,
		BranchesTotal:   10,
		ExecsPerSecond:  12.5,
	})

	out := ui.buildDisplay()
	if out == "" {
		t.Fatal("expected non-empty display")
	}
	if want := "EVM BRANCH FUZZER"; !strings.Contains(out, want) {
		t.Fatalf("expected display to contain %q", want)
	}
}

func TestSafePercent(t *testing.T) {
	if got := safePercent(1, 0); got != 0 {
		t.Fatalf("expected 0 for zero denominator, got %f", got)
	}
	if got := safePercent(1, 4); got != 25 {
		t.Fatalf("expected 25, got %f", got)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(3661); got != "01h 01m 01s" {
		t.Fatalf("expected 01h 01m 01s, got %q", got)
	}
}
