package ports

import (
	"context"

	"github.com/melih/graphbot/internal/core/domain"
)

// InventoryService lists the containers of one host.
// Implementations may talk to a local Docker socket, a remote TLS endpoint
// or read a snapshot file; the graph core does not care which.
type InventoryService interface {
	ListContainers(ctx context.Context) ([]domain.ContainerObservation, error)
}
