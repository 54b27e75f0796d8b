package policy

import (
	"context"
	"strings"
	"testing"
)

func TestDefaultPolicyAllows(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	decision, err := engine.Evaluate(ctx, map[string]interface{}{
		"message":     "do you have lids?",
		"history_len": 1,
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if decision != "allow" {
		t.Fatalf("expected allow, got %q", decision)
	}
}

func TestDefaultPolicyBlocksOversizedInput(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	decision, err := engine.Evaluate(ctx, map[string]interface{}{
		"message":     strings.Repeat("a", 5000),
		"history_len": 1,
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if decision != "block" {
		t.Fatalf("expected block, got %q", decision)
	}
}

func TestInvalidPolicy(t *testing.T) {
	_, err := NewEngine(context.Background(), "this is not rego")
	if err == nil {
		t.Fatalf("expected error for invalid policy")
	}
}
