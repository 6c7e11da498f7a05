package main

import (
	"testing"

	"go.uber.org/fx"
)

// TestAppGraphValidity verifies that the dependency graph is resolvable:
// every provider's inputs are satisfied and there are no cycles. This
// does not start any real D-Bus or PulseAudio connection.
func TestAppGraphValidity(t *testing.T) {
	err := fx.ValidateApp(AppOptions)
	if err != nil {
		t.Errorf("dependency graph is not valid: %v", err)
	}
}

// TestNewLogger specifically verifies the logger configuration.
func TestNewLogger(t *testing.T) {
	logger, err := newLogger()
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	if logger == nil {
		t.Fatal("logger should not be nil")
	}
	logger.Info("test logger initialization")
}

// TestNewIgnoredPatterns verifies the placeholder provider returns an
// empty, non-panicking slice.
func TestNewIgnoredPatterns(t *testing.T) {
	if patterns := newIgnoredPatterns(); len(patterns) != 0 {
		t.Fatalf("expected no default ignored patterns, got %v", patterns)
	}
}
