package ports

import "go.trai.ch/crest/internal/core/domain"

// SelectionStore persists the last selected preset name per kind for a
// workspace. The storage mechanism is not the core's concern.
//
//go:generate mockgen -source=selection.go -destination=mocks/mock_selection.go -package=mocks
type SelectionStore interface {
	// Get retrieves the selection record for a workspace.
	// Returns nil, nil when no selection has been persisted yet.
	Get(workspace string) (*domain.Selection, error)

	// Put stores the selection record for a workspace.
	Put(workspace string, sel *domain.Selection) error
}
