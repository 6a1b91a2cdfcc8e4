package reporter

import "testing"

func TestParseModeRoundTrip(t *testing.T) {
	cases := map[string]Mode{"TERMINAL": ModeTerminal, "JSON": ModeJSON, "BOTH": ModeBoth}
	for s, want := range cases {
		got, err := ParseMode(s)
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", s, err)
		}
		if got != want {
			t.Fatalf("ParseMode(%q) = %v, want %v", s, got, want)
		}
		if got.String() != s {
			t.Fatalf("String() round trip failed: got %q, want %q", got.String(), s)
		}
	}
}

func TestParseModeRejectsUnknown(t *testing.T) {
	if _, err := ParseMode("BOGUS"); err == nil {
		t.Fatal("expected an error for an unknown mode")
	}
}

func TestModeWants(t *testing.T) {
	if !ModeTerminal.WantsTerminal() || ModeTerminal.WantsJSON() {
		t.Fatal("ModeTerminal should want terminal only")
	}
	if !ModeJSON.WantsJSON() || ModeJSON.WantsTerminal() {
		t.Fatal("ModeJSON should want json only")
	}
	if !ModeBoth.WantsTerminal() || !ModeBoth.WantsJSON() {
		t.Fatal("ModeBoth should want both")
	}
}
