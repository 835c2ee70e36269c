package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/crest/internal/core/domain"
)

func TestMergeEnvironment_OverWins(t *testing.T) {
	under := domain.Environment{
		"A": domain.EnvValue("1"),
		"B": domain.EnvValue("2"),
	}
	over := domain.Environment{
		"B": domain.EnvValue("3"),
		"C": nil, // explicit unset
	}

	merged := domain.MergeEnvironment(under, over)

	flat := merged.Flatten()
	assert.Equal(t, map[string]string{"A": "1", "B": "3"}, flat)

	// The unset marker must survive the merge so it keeps shadowing
	// values from layers merged in later.
	_, present := merged["C"]
	assert.True(t, present)
	_, ok := merged.Lookup("C")
	assert.False(t, ok)
}

func TestMergeEnvironment_UnsetShadowsInherited(t *testing.T) {
	grandparent := domain.Environment{"C": domain.EnvValue("4")}
	child := domain.Environment{"C": nil}

	merged := domain.MergeEnvironment(grandparent, child)

	assert.NotContains(t, merged.Flatten(), "C")
}

func TestEnvironment_Strings_SortedAndStripped(t *testing.T) {
	env := domain.Environment{
		"PATH":  domain.EnvValue("/usr/bin"),
		"GONE":  nil,
		"CC":    domain.EnvValue("clang"),
		"EMPTY": domain.EnvValue(""),
	}

	assert.Equal(t, []string{"CC=clang", "EMPTY=", "PATH=/usr/bin"}, env.Strings())
}

func TestEnvironmentFromStrings(t *testing.T) {
	env := domain.EnvironmentFromStrings([]string{"A=1", "B=x=y", "malformed", "=nokey"})

	assert.Equal(t, map[string]string{"A": "1", "B": "x=y"}, env.Flatten())
}

func TestEnvironment_Clone_Independent(t *testing.T) {
	env := domain.Environment{"A": domain.EnvValue("1")}
	clone := env.Clone()
	clone["A"] = domain.EnvValue("2")

	v, _ := env.Lookup("A")
	assert.Equal(t, "1", v)
}
