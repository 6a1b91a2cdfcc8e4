package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "configs", "fuzz.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadUnwrapsTopLevelFuzzKey(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
fuzz:
  contract_info:
    - name: Target
      is_main: true
    - name: Attacker
      is_main: false
  attacker_name: Attacker
  is_prefuzz: true
  mode: 0
  order: FIRST
  duration: 120
  reporter: BOTH
  case_num: 5
`)
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	param, err := Load("fuzz")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if param.Duration != 120 || param.Reporter != "BOTH" || param.CaseNum != 5 {
		t.Fatalf("unexpected param: %+v", param)
	}
	main, ok := param.MainContract()
	if !ok || main.Name != "Target" {
		t.Fatalf("expected main contract Target, got %+v ok=%v", main, ok)
	}
	attacker, ok := param.AttackerContract()
	if !ok || attacker.Name != "Attacker" {
		t.Fatalf("expected attacker contract Attacker, got %+v ok=%v", attacker, ok)
	}
}

func TestLoadFallsBackToBareFileWithoutFuzzKey(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
contract_info:
  - name: Target
    is_main: true
is_prefuzz: false
`)
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	param, err := Load("fuzz")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if param.IsPreFuzz {
		t.Fatal("expected is_prefuzz false")
	}
	if param.Duration != 3600 {
		t.Fatalf("expected default duration 3600, got %d", param.Duration)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
fuzz:
  contract_info:
    - name: Target
      is_main: true
`)
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	param, err := Load("fuzz")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if param.Reporter != "TERMINAL" || param.CaseNum != 1 || param.Order != OrderFirst || param.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", param)
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	if _, err := Load("does_not_exist"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestLoadResolvesEnvVarPlaceholders(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
fuzz:
  contract_info:
    - name: ${TARGET_NAME}
      is_main: true
`)
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	os.Setenv("TARGET_NAME", "Resolved")
	defer os.Unsetenv("TARGET_NAME")

	param, err := Load("fuzz")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	main, ok := param.MainContract()
	if !ok || main.Name != "Resolved" {
		t.Fatalf("expected resolved env var, got %+v ok=%v", main, ok)
	}
}
