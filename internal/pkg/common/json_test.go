package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around object", "Here you go:\n{\"a\":1}\nEnjoy!", `{"a":1}`},
		// Leading prose defeats the fence prefix check, but the
		// outermost-object narrowing still recovers the JSON.
		{"fence with prose", "Sure!\n```json\n{\"a\":1}\n```", `{"a":1}`},
		{"no json at all", "cannot help", "cannot help"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripCodeFence(tt.raw))
		})
	}
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var v map[string]interface{}
	require.NoError(t, ParseJSON(`{"a":1}`, &v))
	assert.Error(t, ParseJSON(`{"a":1}{"b":2}`, &v))
}

func TestParseJSONStrict(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	var p payload
	require.NoError(t, ParseJSONStrict(`{"name":"x"}`, &p))
	assert.Error(t, ParseJSONStrict(`{"name":"x","extra":1}`, &p))
}
