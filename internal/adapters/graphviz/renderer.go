package graphviz

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/melih/graphbot/internal/core/domain"
)

// FormatDOT renders the DOT source only.
const FormatDOT = "dot"

// Renderer writes the DOT source of a graph and runs the Graphviz dot
// binary over it.
type Renderer struct {
	format string
	binary string
}

// NewRenderer returns a renderer producing the given format (png, svg, pdf
// or dot).
func NewRenderer(format string) *Renderer {
	return &Renderer{format: format, binary: "dot"}
}

// WithBinary overrides the dot executable.
func (r *Renderer) WithBinary(path string) *Renderer {
	r.binary = path
	return r
}

// Render writes path.gv and, unless the format is dot, path.<format>.
func (r *Renderer) Render(ctx context.Context, g *domain.Graph, path string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	source := path + ".gv"
	if err := os.WriteFile(source, Marshal(g), 0o644); err != nil {
		return "", fmt.Errorf("failed to write DOT file: %w", err)
	}
	if r.format == "" || r.format == FormatDOT {
		return source, nil
	}

	out := path + "." + r.format
	cmd := exec.CommandContext(ctx, r.binary, "-T"+r.format, "-o", out, source)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("failed to run %s: %w: %s", r.binary, err, output)
	}
	return out, nil
}
