package http

import (
	"fmt"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
)

// ArtifactStore lists the files rendered so far.
type ArtifactStore interface {
	Generated() []string
}

// ArtifactHandler serves rendered diagrams by file name.
type ArtifactHandler struct {
	store ArtifactStore
}

func NewArtifactHandler(store ArtifactStore) *ArtifactHandler {
	return &ArtifactHandler{store: store}
}

func (h *ArtifactHandler) ListArtifacts(c *fiber.Ctx) error {
	names := []string{}
	for _, path := range h.store.Generated() {
		names = append(names, filepath.Base(path))
	}
	return c.JSON(names)
}

// GetArtifact only serves files of the generated ledger, never arbitrary
// paths of the output directory.
func (h *ArtifactHandler) GetArtifact(c *fiber.Ctx) error {
	name := c.Params("name")

	// Latest render wins when a name was generated twice.
	generated := h.store.Generated()
	for i := len(generated) - 1; i >= 0; i-- {
		if filepath.Base(generated[i]) == name {
			return c.SendFile(generated[i])
		}
	}

	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": fmt.Sprintf("artifact '%s' not found, render first", name),
	})
}
