package expand_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/crest/internal/adapters/expand"
	"go.trai.ch/crest/internal/core/domain"
	"go.trai.ch/crest/internal/core/ports"
)

func testContext() *ports.ExpansionContext {
	return &ports.ExpansionContext{
		WorkspaceFolder: "/work/proj",
		SourceDir:       "/work/proj",
		PresetName:      "linux-debug",
		Generator:       "Ninja",
		HostSystemName:  "Linux",
		FileDir:         "/work/proj",
		PathListSep:     ":",
		Version:         5,
		Env:             domain.Environment{},
		ParentEnv:       domain.Environment{},
	}
}

func TestEngine_Expand_Macros(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"no templates is identity", "plain text, no references", "plain text, no references"},
		{"sourceDir", "${sourceDir}/build", "/work/proj/build"},
		{"sourceParentDir", "${sourceParentDir}", "/work"},
		{"sourceDirName", "${sourceDirName}", "proj"},
		{"presetName", "out/${presetName}", "out/linux-debug"},
		{"generator", "${generator}", "Ninja"},
		{"hostSystemName", "${hostSystemName}", "Linux"},
		{"fileDir", "${fileDir}", "/work/proj"},
		{"pathListSep", "a${pathListSep}b", "a:b"},
		{"dollar", "${dollar}HOME", "$HOME"},
		{"bare dollar passes through", "cost: $5", "cost: $5"},
		{"vendor reference passes through", "$vendor{xide.buildKind}", "$vendor{xide.buildKind}"},
		{"multiple references", "${sourceDir}/out/${presetName}", "/work/proj/out/linux-debug"},
	}

	engine := expand.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Expand(tt.template, testContext(), func(err error, _ string) {
				t.Fatalf("unexpected expansion error: %v", err)
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_Expand_EnvLookup(t *testing.T) {
	ctx := testContext()
	ctx.Env = domain.Environment{
		"FLAVOR":  domain.EnvValue("debug"),
		"OUT":     domain.EnvValue("${sourceDir}/out-$env{FLAVOR}"),
		"DELETED": nil,
	}
	ctx.ParentEnv = domain.Environment{
		"HOME":   domain.EnvValue("/home/dev"),
		"FLAVOR": domain.EnvValue("ambient"),
	}
	engine := expand.New()

	t.Run("preset env wins over parent env", func(t *testing.T) {
		assert.Equal(t, "debug", engine.Expand("$env{FLAVOR}", ctx, nil))
	})

	t.Run("forward reference through another entry", func(t *testing.T) {
		assert.Equal(t, "/work/proj/out-debug", engine.Expand("$env{OUT}", ctx, nil))
	})

	t.Run("env falls back to parent env", func(t *testing.T) {
		assert.Equal(t, "/home/dev", engine.Expand("$env{HOME}", ctx, nil))
	})

	t.Run("explicit unset expands empty", func(t *testing.T) {
		assert.Equal(t, "", engine.Expand("$env{DELETED}", ctx, nil))
	})

	t.Run("penv ignores preset env", func(t *testing.T) {
		assert.Equal(t, "ambient", engine.Expand("$penv{FLAVOR}", ctx, nil))
	})

	t.Run("penv does not recurse", func(t *testing.T) {
		recCtx := testContext()
		recCtx.ParentEnv = domain.Environment{"RAW": domain.EnvValue("${sourceDir}")}
		assert.Equal(t, "${sourceDir}", engine.Expand("$penv{RAW}", recCtx, nil))
	})
}

func TestEngine_Expand_Cycle(t *testing.T) {
	ctx := testContext()
	ctx.Env = domain.Environment{
		"A": domain.EnvValue("$env{B}"),
		"B": domain.EnvValue("$env{A}"),
	}

	var cycleErr error
	got := expand.New().Expand("$env{A}", ctx, func(err error, _ string) {
		cycleErr = err
	})

	assert.Equal(t, "", got)
	assert.ErrorIs(t, cycleErr, domain.ErrMacroCycle)
}

func TestEngine_Expand_SelfReferenceIsCycle(t *testing.T) {
	ctx := testContext()
	ctx.Env = domain.Environment{"PATH": domain.EnvValue("/opt/bin:$env{PATH}")}

	var cycleErr error
	got := expand.New().Expand("$env{PATH}", ctx, func(err error, _ string) {
		cycleErr = err
	})

	// The self-reference fails closed; the rest of the value survives.
	assert.Equal(t, "/opt/bin:", got)
	assert.ErrorIs(t, cycleErr, domain.ErrMacroCycle)
}

func TestEngine_Expand_UnknownMacro(t *testing.T) {
	var gotErr error
	got := expand.New().Expand("${bogus}", testContext(), func(err error, _ string) {
		gotErr = err
	})

	assert.Equal(t, "", got)
	assert.ErrorIs(t, gotErr, domain.ErrUnknownMacro)
}

func TestEngine_Expand_Unterminated(t *testing.T) {
	var gotErr error
	got := expand.New().Expand("${sourceDir", testContext(), func(err error, _ string) {
		gotErr = err
	})

	assert.Equal(t, "${sourceDir", got)
	assert.ErrorIs(t, gotErr, domain.ErrUnterminatedMacro)
}

func TestEngine_Expand_VersionGatedMacros(t *testing.T) {
	tests := []struct {
		name     string
		template string
		version  int
	}{
		{"fileDir requires v4", "${fileDir}", 3},
		{"pathListSep requires v5", "${pathListSep}", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext()
			ctx.Version = tt.version

			var gotErr error
			got := expand.New().Expand(tt.template, ctx, func(err error, _ string) {
				gotErr = err
			})

			assert.Equal(t, "", got)
			require.Error(t, gotErr)
			assert.ErrorIs(t, gotErr, domain.ErrVersionGatedField)
		})
	}
}
