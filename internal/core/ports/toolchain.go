package ports

import (
	"context"

	"go.trai.ch/crest/internal/core/domain"
)

// Toolchain identifies one installed compiler toolset.
type Toolchain struct {
	// Name is a human-readable identifier, e.g. an IDE install display name.
	Name string

	// Path is the toolset's installation root.
	Path string

	// Version is the toolset version string.
	Version string
}

// ToolchainRequest selects a developer environment to compute.
type ToolchainRequest struct {
	HostArchitecture   string
	TargetArchitecture string
	ToolsetVersion     string
}

// ToolchainProvider discovers compiler toolchains and computes the
// environment overlay a toolset needs. Probing may shell out to external
// locator tools and is expected to be slow; callers cache the result.
//
//go:generate mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks
type ToolchainProvider interface {
	// Candidates returns installed toolchains in preference order.
	Candidates(ctx context.Context) ([]Toolchain, error)

	// Environment computes the environment-variable overlay for the
	// requested tuple. Returns domain.ErrToolchainNotFound when no
	// installed toolchain satisfies the request.
	Environment(ctx context.Context, req ToolchainRequest) (domain.Environment, error)
}
