package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerKeyString(t *testing.T) {
	tests := []struct {
		name string
		key  AnswerKey
		want string
	}{
		{"common", CommonKey("q1"), "common-q1"},
		{"subject", SubjectKey("S1", "p1"), "S1-p1"},
		{"template instance", TemplateInstanceKey("S1", "t1"), "S1-tpl-S1-t1"},
		{"hyphenated subject", TemplateInstanceKey("emp-7", "t1"), "emp-7-tpl-emp-7-t1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.String())
		})
	}
}

func TestParseAnswerKeyRoundTrip(t *testing.T) {
	subjects := map[string]struct{}{
		"S1":    {},
		"emp-7": {},
	}
	keys := []AnswerKey{
		CommonKey("q1"),
		SubjectKey("S1", "p1"),
		SubjectKey("emp-7", "p1"),
		TemplateInstanceKey("S1", "t1"),
		TemplateInstanceKey("emp-7", "t1"),
	}
	for _, key := range keys {
		t.Run(key.String(), func(t *testing.T) {
			parsed, ok := ParseAnswerKey(key.String(), subjects)
			require.True(t, ok)
			assert.Equal(t, key, parsed)
		})
	}
}

func TestParseAnswerKeyLongestSubjectWins(t *testing.T) {
	// "emp" is a prefix of "emp-7"; "emp-7-p1" must parse as emp-7's answer.
	subjects := map[string]struct{}{
		"emp":   {},
		"emp-7": {},
	}

	parsed, ok := ParseAnswerKey("emp-7-p1", subjects)
	require.True(t, ok)
	assert.Equal(t, SubjectKey("emp-7", "p1"), parsed)

	parsed, ok = ParseAnswerKey("emp-p1", subjects)
	require.True(t, ok)
	assert.Equal(t, SubjectKey("emp", "p1"), parsed)
}

func TestParseAnswerKeyRejects(t *testing.T) {
	subjects := map[string]struct{}{"S1": {}}

	tests := []struct {
		name string
		raw  string
	}{
		{"unknown subject", "ghost-p1"},
		{"bare subject id", "S1-"},
		{"no separator", "S1"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseAnswerKey(tt.raw, subjects)
			assert.False(t, ok)
		})
	}
}
