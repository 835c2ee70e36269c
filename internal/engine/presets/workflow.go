package presets

import (
	"context"

	"go.trai.ch/crest/internal/core/domain"
)

// validateWorkflow checks a resolved workflow preset: the first step must be
// a configure step, and every later step must run a preset that references,
// after its own inheritance is merged, that same configure preset.
func (r *Resolver) validateWorkflow(ctx context.Context, pc *passContext, p *domain.WorkflowPreset) error {
	if len(p.Steps) == 0 || p.Steps[0].Type != domain.KindConfigure {
		return domain.With(domain.ErrInvalidWorkflowFirstStep, "workflow", p.Name)
	}
	configureName := p.Steps[0].Name
	if _, err := resolve(ctx, r, pc, configureOps, configureName, p.IsUserPreset()); err != nil {
		return domain.With(err, "workflow", p.Name)
	}
	for i, step := range p.Steps[1:] {
		ref, err := r.stepConfigureReference(ctx, pc, step, p.IsUserPreset())
		if err != nil {
			err = domain.With(err, "workflow", p.Name)
			return domain.With(err, "step", i+1)
		}
		if ref != configureName {
			err := domain.With(domain.ErrWorkflowIncompatible, "workflow", p.Name)
			err = domain.With(err, "step", i+1)
			err = domain.With(err, "step_preset", step.Name)
			err = domain.With(err, "expected_configure_preset", configureName)
			return domain.With(err, "actual_configure_preset", ref)
		}
	}
	return nil
}

// stepConfigureReference resolves the preset a workflow step names and
// returns the configure preset it ends up referencing.
func (r *Resolver) stepConfigureReference(ctx context.Context, pc *passContext, step domain.WorkflowStep, includeUser bool) (string, error) {
	switch step.Type {
	case domain.KindBuild:
		p, err := resolve(ctx, r, pc, buildOps, step.Name, includeUser)
		if err != nil {
			return "", err
		}
		return p.ConfigurePreset, nil
	case domain.KindTest:
		p, err := resolve(ctx, r, pc, testOps, step.Name, includeUser)
		if err != nil {
			return "", err
		}
		return p.ConfigurePreset, nil
	case domain.KindPackage:
		p, err := resolve(ctx, r, pc, packageOps, step.Name, includeUser)
		if err != nil {
			return "", err
		}
		return p.ConfigurePreset, nil
	default:
		err := domain.With(domain.ErrInvalidPresetKind, "kind", string(step.Type))
		return "", domain.With(err, "step_preset", step.Name)
	}
}
