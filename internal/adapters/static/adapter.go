package static

import (
	"context"
	"fmt"
	"os"

	"github.com/melih/graphbot/internal/core/domain"
	"gopkg.in/yaml.v3"
)

// snapshot is the on-disk layout of an inventory file. JSON is valid YAML,
// so both formats decode the same way.
type snapshot struct {
	Containers []domain.ContainerObservation `yaml:"containers"`
}

// Adapter implements ports.InventoryService over a snapshot file, for
// hosts that cannot be reached from where graphbot runs.
type Adapter struct {
	path string
}

func NewAdapter(path string) *Adapter {
	return &Adapter{path: path}
}

// ListContainers reads the snapshot again on every call.
func (a *Adapter) ListContainers(ctx context.Context) ([]domain.ContainerObservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}

	var s snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid inventory %s: %w", a.path, err)
	}
	return s.Containers, nil
}
