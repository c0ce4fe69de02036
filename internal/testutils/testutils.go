// Package testutils holds helpers shared by integration tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/katariyakhushi/umbrella-customiser/internal/config"
)

// ConfigForTests builds a config from the repository's .env.test file and
// nothing else, so the developer's environment cannot leak into tests.
func ConfigForTests(t *testing.T) *config.Config {
	t.Helper()

	// Find the project root by looking for go.mod to reliably locate .env.test.
	path, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			break
		}
		if path == filepath.Dir(path) {
			t.Fatalf("could not find project root with go.mod")
		}
		path = filepath.Dir(path)
	}

	env, err := godotenv.Read(filepath.Join(path, ".env.test"))
	if err != nil {
		t.Fatalf("failed to load .env.test file: %v", err)
	}

	cfg, err := config.FromEnv(func(key string) string { return env[key] })
	if err != nil {
		t.Fatalf("invalid .env.test: %v", err)
	}
	return cfg
}
