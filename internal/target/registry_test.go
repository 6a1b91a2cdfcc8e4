package target

import "testing"

func TestOpenUnknownBackendErrors(t *testing.T) {
	if _, err := Open("does-not-exist", "contract.sol"); err == nil {
		t.Fatal("expected an error for an unregistered backend")
	}
}

func TestRegisterThenOpenReturnsTheFactoryResult(t *testing.T) {
	Register("stub-test-backend", func(contractPath string) (Target, error) {
		return Target{Runtime: "0x" + contractPath}, nil
	})

	got, err := Open("stub-test-backend", "60ff")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Runtime != "0x60ff" {
		t.Fatalf("expected factory result to round-trip, got %q", got.Runtime)
	}
}
