package graph

import (
	"context"
	"errors"

	"github.com/melih/graphbot/internal/core/domain"
)

func testScheme() domain.ColorScheme {
	return domain.ColorScheme{
		domain.ColorProxy:      "#063956",
		domain.ColorPort:       "#3891A6",
		domain.ColorImage:      "#E1E4E8",
		domain.ColorLink:       "#FF9F1C",
		domain.ColorContainer:  "#FFFFFF",
		domain.ColorNetwork:    "#C7E8F3",
		domain.ColorVM:         "#F6F8FA",
		domain.ColorDarkText:   "#24292E",
		domain.ColorBrightText: "#FFFFFF",
	}
}

// fakeInventory returns a fixed observation list and counts calls.
type fakeInventory struct {
	observations []domain.ContainerObservation
	err          error
	calls        int
	onList       func()
}

func (f *fakeInventory) ListContainers(ctx context.Context) ([]domain.ContainerObservation, error) {
	f.calls++
	if f.onList != nil {
		f.onList()
	}
	return f.observations, f.err
}

var errUnreachable = errors.New("connection refused")

func running(name, tag string, networks ...string) domain.ContainerObservation {
	o := domain.ContainerObservation{
		Name:   name,
		Tags:   []string{tag},
		Status: "running",
		Labels: map[string]string{},
	}
	for _, n := range networks {
		o.Networks = append(o.Networks, domain.NetworkMembership{Name: n})
	}
	return o
}

func edgeStrings(g *domain.Graph) [][2]string {
	var out [][2]string
	for _, e := range g.AllEdges() {
		out = append(out, [2]string{e.From.String(), e.To.String()})
	}
	return out
}

func strPtr(s string) *string { return &s }
