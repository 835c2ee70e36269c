package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/crest/internal/core/domain"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestCondition_Evaluate(t *testing.T) {
	tests := []struct {
		name      string
		condition *domain.Condition
		want      bool
	}{
		{
			name:      "const true",
			condition: &domain.Condition{Type: "const", Value: boolPtr(true)},
			want:      true,
		},
		{
			name:      "const false",
			condition: &domain.Condition{Type: "const", Value: boolPtr(false)},
			want:      false,
		},
		{
			name:      "equals match",
			condition: &domain.Condition{Type: "equals", Lhs: strPtr("Linux"), Rhs: strPtr("Linux")},
			want:      true,
		},
		{
			name:      "equals mismatch",
			condition: &domain.Condition{Type: "equals", Lhs: strPtr("Linux"), Rhs: strPtr("Darwin")},
			want:      false,
		},
		{
			name:      "notEquals",
			condition: &domain.Condition{Type: "notEquals", Lhs: strPtr("Linux"), Rhs: strPtr("Darwin")},
			want:      true,
		},
		{
			name:      "inList present",
			condition: &domain.Condition{Type: "inList", String: strPtr("b"), List: []string{"a", "b"}},
			want:      true,
		},
		{
			name:      "inList absent",
			condition: &domain.Condition{Type: "inList", String: strPtr("c"), List: []string{"a", "b"}},
			want:      false,
		},
		{
			name:      "notInList",
			condition: &domain.Condition{Type: "notInList", String: strPtr("c"), List: []string{"a", "b"}},
			want:      true,
		},
		{
			name:      "matches",
			condition: &domain.Condition{Type: "matches", String: strPtr("x86_64"), Regex: strPtr(`^x86`)},
			want:      true,
		},
		{
			name:      "notMatches",
			condition: &domain.Condition{Type: "notMatches", String: strPtr("arm64"), Regex: strPtr(`^x86`)},
			want:      true,
		},
		{
			name: "allOf short circuit",
			condition: &domain.Condition{Type: "allOf", Conditions: []*domain.Condition{
				{Type: "const", Value: boolPtr(true)},
				{Type: "const", Value: boolPtr(false)},
			}},
			want: false,
		},
		{
			name: "anyOf",
			condition: &domain.Condition{Type: "anyOf", Conditions: []*domain.Condition{
				{Type: "const", Value: boolPtr(false)},
				{Type: "const", Value: boolPtr(true)},
			}},
			want: true,
		},
		{
			name: "not",
			condition: &domain.Condition{Type: "not", Condition: &domain.Condition{
				Type: "const", Value: boolPtr(false),
			}},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.condition.Evaluate()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCondition_Evaluate_MissingProperties(t *testing.T) {
	tests := []struct {
		name      string
		condition *domain.Condition
	}{
		{"const without value", &domain.Condition{Type: "const"}},
		{"equals without lhs", &domain.Condition{Type: "equals", Rhs: strPtr("x")}},
		{"equals without rhs", &domain.Condition{Type: "equals", Lhs: strPtr("x")}},
		{"notEquals without rhs", &domain.Condition{Type: "notEquals", Lhs: strPtr("x")}},
		{"inList without string", &domain.Condition{Type: "inList", List: []string{"a"}}},
		{"inList without list", &domain.Condition{Type: "inList", String: strPtr("a")}},
		{"notInList without list", &domain.Condition{Type: "notInList", String: strPtr("a")}},
		{"matches without regex", &domain.Condition{Type: "matches", String: strPtr("a")}},
		{"matches without string", &domain.Condition{Type: "matches", Regex: strPtr("a")}},
		{"allOf without conditions", &domain.Condition{Type: "allOf"}},
		{"anyOf without conditions", &domain.Condition{Type: "anyOf"}},
		{"not without condition", &domain.Condition{Type: "not"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.condition.Evaluate()
			assert.ErrorIs(t, err, domain.ErrConditionMissingProperty)
		})
	}
}

func TestCondition_Evaluate_UnknownType(t *testing.T) {
	// An unrecognized type must be a typed error, never a silent false.
	_, err := (&domain.Condition{Type: "sometimes"}).Evaluate()
	assert.ErrorIs(t, err, domain.ErrInvalidConditionType)
}

func TestCondition_Evaluate_InvalidRegex(t *testing.T) {
	cond := &domain.Condition{Type: "matches", String: strPtr("x"), Regex: strPtr("(")}
	_, err := cond.Evaluate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid condition regex")
}

func TestCondition_Evaluate_Nested(t *testing.T) {
	cond := &domain.Condition{
		Type: "allOf",
		Conditions: []*domain.Condition{
			{Type: "equals", Lhs: strPtr("Ninja"), Rhs: strPtr("Ninja")},
			{Type: "not", Condition: &domain.Condition{
				Type: "inList", String: strPtr("Windows"), List: []string{"Linux", "Darwin"},
			}},
		},
	}
	got, err := cond.Evaluate()
	require.NoError(t, err)
	assert.True(t, got)
}

func TestCondition_UnmarshalJSON_BoolShorthand(t *testing.T) {
	var cond domain.Condition
	require.NoError(t, json.Unmarshal([]byte(`false`), &cond))

	got, err := cond.Evaluate()
	require.NoError(t, err)
	assert.False(t, got)
}

func TestCondition_Clone_Independent(t *testing.T) {
	original := &domain.Condition{
		Type: "anyOf",
		Conditions: []*domain.Condition{
			{Type: "equals", Lhs: strPtr("a"), Rhs: strPtr("b")},
		},
	}
	clone := original.Clone()
	*clone.Conditions[0].Lhs = "mutated"

	assert.Equal(t, "a", *original.Conditions[0].Lhs)
}
