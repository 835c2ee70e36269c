package presets_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/crest/internal/core/domain"
	"go.trai.ch/crest/internal/core/ports"
)

func TestExpandConfigureMacros(t *testing.T) {
	project := &ports.PresetsFile{
		Path:    projectPath,
		Version: 6,
		ConfigurePresets: []*domain.ConfigurePreset{
			{
				CommonPreset: domain.CommonPreset{
					Name: "dev",
					Environment: domain.Environment{
						"BUILD_ROOT": strPtr("${sourceDir}/out"),
						"NESTED":     strPtr("$env{BUILD_ROOT}/nested"),
					},
					Origin: projectOrigin(6),
				},
				Generator: "Ninja",
				BinaryDir: "$env{BUILD_ROOT}/${presetName}",
				CacheVariables: map[string]domain.CacheVariable{
					"CMAKE_INSTALL_PREFIX": {Value: "${sourceDir}/install"},
					"BUILD_TESTING":        {Bool: boolPtr(true)},
				},
			},
		},
	}
	h := newHarness(t, project, nil, domain.DevEnvNever, nil)

	p := h.configure(t, "dev")
	flat := p.Environment.Flatten()
	assert.Equal(t, "/ws/out", flat["BUILD_ROOT"])
	assert.Equal(t, "/ws/out/nested", flat["NESTED"], "environment entries may reference each other")
	assert.Equal(t, "/ws/out/dev", p.BinaryDir, "fields see the fully expanded environment")
	assert.Equal(t, "/ws/install", p.CacheVariables["CMAKE_INSTALL_PREFIX"].Value)
	assert.True(t, p.CacheVariables["BUILD_TESTING"].IsBool(), "boolean cache variables pass through expansion")
}

func TestExpandConfigureDefaultBinaryDir(t *testing.T) {
	project := &ports.PresetsFile{
		Path:    projectPath,
		Version: 6,
		ConfigurePresets: []*domain.ConfigurePreset{
			{CommonPreset: domain.CommonPreset{Name: "bare", Origin: projectOrigin(6)}, Generator: "Ninja"},
		},
	}
	h := newHarness(t, project, nil, domain.DevEnvNever, nil)

	p := h.configure(t, "bare")
	assert.Equal(t, filepath.Join("/ws", "out", "build", "bare"), filepath.Clean(p.BinaryDir))
}

func TestExpandConfigureNoDefaultBinaryDirOnVersion2(t *testing.T) {
	project := &ports.PresetsFile{
		Path:    projectPath,
		Version: 2,
		ConfigurePresets: []*domain.ConfigurePreset{
			{CommonPreset: domain.CommonPreset{Name: "bare", Origin: projectOrigin(2)}, Generator: "Ninja"},
		},
	}
	h := newHarness(t, project, nil, domain.DevEnvNever, nil)

	p := h.configure(t, "bare")
	assert.Empty(t, p.BinaryDir, "the binaryDir default starts with schema version 3")
}

func TestExpandPenvReadsParentEnvironment(t *testing.T) {
	ambient := domain.Environment{"HOME": strPtr("/home/dev")}
	project := &ports.PresetsFile{
		Path:    projectPath,
		Version: 6,
		ConfigurePresets: []*domain.ConfigurePreset{
			{
				CommonPreset: domain.CommonPreset{
					Name:        "dev",
					Environment: domain.Environment{"CACHE_DIR": strPtr("$penv{HOME}/.cache")},
					Origin:      projectOrigin(6),
				},
				Generator: "Ninja",
				BinaryDir: "/b",
			},
		},
	}
	h := newHarness(t, project, nil, domain.DevEnvNever, ambient)

	p := h.configure(t, "dev")
	assert.Equal(t, "/home/dev/.cache", p.Environment.Flatten()["CACHE_DIR"])
	assert.Equal(t, "/home/dev", p.ParentEnvironment.Flatten()["HOME"])
}

func TestExpandBuildSeesConfigureGenerator(t *testing.T) {
	project := &ports.PresetsFile{
		Path:    projectPath,
		Version: 6,
		ConfigurePresets: []*domain.ConfigurePreset{
			{CommonPreset: domain.CommonPreset{Name: "cfg", Origin: projectOrigin(6)}, Generator: "Ninja", BinaryDir: "/b"},
		},
		BuildPresets: []*domain.BuildPreset{
			{
				CommonPreset: domain.CommonPreset{
					Name:        "bld",
					Environment: domain.Environment{"GEN": strPtr("${generator}")},
					Origin:      projectOrigin(6),
				},
				StageReference: domain.StageReference{ConfigurePreset: "cfg"},
				Targets:        domain.Targets{"all-${presetName}"},
			},
		},
	}
	h := newHarness(t, project, nil, domain.DevEnvNever, nil)

	p := h.build(t, "bld")
	assert.Equal(t, "Ninja", p.Environment.Flatten()["GEN"],
		"the generator macro resolves against the referenced configure preset")
	assert.Equal(t, domain.Targets{"all-bld"}, p.Targets)
}

func TestExpandFailureIsDiagnosedNotFatal(t *testing.T) {
	project := &ports.PresetsFile{
		Path:    projectPath,
		Version: 6,
		ConfigurePresets: []*domain.ConfigurePreset{
			{
				CommonPreset: domain.CommonPreset{Name: "dev", Origin: projectOrigin(6)},
				Generator:    "Ninja",
				BinaryDir:    "/out/${bogusMacro}/x",
			},
		},
	}
	h := newHarness(t, project, nil, domain.DevEnvNever, nil)

	p := h.configure(t, "dev")
	assert.Equal(t, "/out//x", p.BinaryDir, "an unresolvable reference expands to the empty string")

	diags := h.ctrl.Diagnostics()
	require.NotEmpty(t, diags)
	assert.ErrorIs(t, diags[0].Err, domain.ErrUnknownMacro)
	assert.Equal(t, projectPath, diags[0].Path)
}

func TestUsableFiltersHiddenAndDisabled(t *testing.T) {
	falseCond := &domain.Condition{Type: domain.ConditionConst, Value: boolPtr(false)}
	project := &ports.PresetsFile{
		Path:    projectPath,
		Version: 6,
		ConfigurePresets: []*domain.ConfigurePreset{
			{CommonPreset: domain.CommonPreset{Name: "visible", Origin: projectOrigin(6)}, Generator: "Ninja", BinaryDir: "/b"},
			{CommonPreset: domain.CommonPreset{Name: "hidden-base", Hidden: true, Origin: projectOrigin(6)}, Generator: "Ninja"},
			{
				CommonPreset: domain.CommonPreset{Name: "disabled", Condition: falseCond, Origin: projectOrigin(6)},
				Generator:    "Ninja", BinaryDir: "/b",
			},
			{
				CommonPreset: domain.CommonPreset{
					Name:     "disabled-by-ancestor",
					Inherits: domain.InheritList{"disabled-hidden"},
					Origin:   projectOrigin(6),
				},
				BinaryDir: "/b",
			},
			{
				CommonPreset: domain.CommonPreset{
					Name: "disabled-hidden", Hidden: true, Condition: falseCond.Clone(),
					Origin: projectOrigin(6),
				},
				Generator: "Ninja",
			},
		},
	}
	h := newHarness(t, project, nil, domain.DevEnvNever, nil)

	assert.Equal(t, []string{"visible"}, h.ctrl.ListUsable(context.Background(), domain.KindConfigure))
}

func TestUsableEvaluatesExpandedCondition(t *testing.T) {
	project := &ports.PresetsFile{
		Path:    projectPath,
		Version: 6,
		ConfigurePresets: []*domain.ConfigurePreset{
			{
				CommonPreset: domain.CommonPreset{
					Name: "self-named",
					Condition: &domain.Condition{
						Type: domain.ConditionEquals,
						Lhs:  strPtr("${presetName}"),
						Rhs:  strPtr("self-named"),
					},
					Origin: projectOrigin(6),
				},
				Generator: "Ninja",
				BinaryDir: "/b",
			},
		},
	}
	h := newHarness(t, project, nil, domain.DevEnvNever, nil)

	assert.True(t, h.ctrl.Usable(context.Background(), domain.KindConfigure, "self-named"),
		"conditions are evaluated after macro expansion")
}
