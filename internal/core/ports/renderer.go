package ports

import (
	"context"

	"github.com/melih/graphbot/internal/core/domain"
)

// Renderer turns a graph description into an artifact.
type Renderer interface {
	// Render writes g under path (without extension) and returns the path
	// of the produced artifact.
	Render(ctx context.Context, g *domain.Graph, path string) (string, error)
}

// Publisher ships rendered artifacts to a remote store.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, files []string) error
}
