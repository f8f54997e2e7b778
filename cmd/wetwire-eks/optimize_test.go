package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wetwire "github.com/lex00/wetwire-eks-go"
)

func TestNewOptimizeCmd(t *testing.T) {
	cmd := newOptimizeCmd(&globalOptions{})

	if cmd.Use != "optimize" {
		t.Errorf("Use = %q, want 'optimize'", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}
	if cmd.Flags().Lookup("format") == nil {
		t.Error("missing --format flag")
	}
	if cmd.Flags().Lookup("category") == nil {
		t.Error("missing --category flag")
	}
}

func TestOptimize_JSON(t *testing.T) {
	out, err := run(t, "optimize", "--namespace", "demo", "--base-cidr", "10.0", "--create-private-subnets=false", "-f", "json")
	require.NoError(t, err)

	var result wetwire.OptimizeResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 9, result.ResourceCount)
	assert.Equal(t, 2, result.Summary.Security)
}

func TestOptimize_Text(t *testing.T) {
	out, err := run(t, "optimize", "--namespace", "demo", "--base-cidr", "10.0", "--category", "reliability")
	require.NoError(t, err)
	assert.Contains(t, out, "=== Reliability (1) ===")
	assert.Contains(t, out, "Resource: demoEksNatGateway")
}

func TestOptimize_InvalidCategory(t *testing.T) {
	_, err := run(t, "optimize", "--base-cidr", "10.0", "--category", "speed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid category")
}
