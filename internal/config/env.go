package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// envVarPattern matches environment variable placeholders: ${VAR_NAME} or $VAR_NAME
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// resolveEnvVars replaces environment variable placeholders in a string with
// their values. Unset variables are left as-is in the string.
func resolveEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match
		if strings.HasPrefix(match, "${") && strings.HasSuffix(match, "}") {
			varName = match[2 : len(match)-1]
		} else if strings.HasPrefix(match, "$") {
			varName = match[1:]
		}
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match
	})
}

// LoadEnvFromDotEnv loads KEY=value pairs from a .env file in dir, skipping
// blank lines and lines starting with #. A missing file is not an error.
// Variables already set in the environment are left untouched.
func LoadEnvFromDotEnv(dir string) error {
	envPath := filepath.Join(dir, ".env")

	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(envPath)
	if err != nil {
		return fmt.Errorf("config: failed to read .env file: %w", err)
	}

	for lineNum, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.Index(line, "=")
		if idx < 0 {
			return fmt.Errorf("config: invalid .env line %d: missing '='", lineNum+1)
		}

		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if (strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"")) ||
			(strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'")) {
			value = value[1 : len(value)-1]
		}

		if _, exists := os.LookupEnv(key); !exists {
			os.Setenv(key, value)
		}
	}

	return nil
}

// LoadEnvFromDotEnvRecursive searches startDir and its ancestors for a .env
// file and loads the first one found. Finding nothing is not an error.
func LoadEnvFromDotEnvRecursive(startDir string) error {
	dir := startDir
	for i := 0; i < 5; i++ {
		if _, err := os.Stat(filepath.Join(dir, ".env")); err == nil {
			return LoadEnvFromDotEnv(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	wd, _ := os.Getwd()
	for i := 0; i < 10; i++ {
		if _, err := os.Stat(filepath.Join(wd, ".env")); err == nil {
			return LoadEnvFromDotEnv(wd)
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			break
		}
		wd = parent
	}

	return nil
}

// applyEnvResolution walks every setting viper has loaded and rewrites
// string values in place, resolving ${VAR}/$VAR placeholders against the
// process environment before the caller unmarshals into FuzzParam.
func applyEnvResolution(v *viper.Viper) {
	settings := v.AllSettings()
	resolveInMap(settings)
	for key, value := range settings {
		v.Set(key, value)
	}
}

func resolveInMap(m map[string]interface{}) {
	for k, val := range m {
		switch v := val.(type) {
		case string:
			if resolved := resolveEnvVars(v); resolved != v {
				m[k] = resolved
			}
		case map[string]interface{}:
			resolveInMap(v)
		case []interface{}:
			resolveInSlice(v)
		}
	}
}

func resolveInSlice(s []interface{}) {
	for i, val := range s {
		switch v := val.(type) {
		case string:
			s[i] = resolveEnvVars(v)
		case map[string]interface{}:
			resolveInMap(v)
		}
	}
}
