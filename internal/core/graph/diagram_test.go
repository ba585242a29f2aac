package graph

import (
	"testing"

	"github.com/melih/graphbot/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiagram(t *testing.T) {
	g, err := NewDiagram("Acme", testScheme())
	require.NoError(t, err)

	assert.Equal(t, "Acme architecture", g.Name)
	assert.Equal(t, "true", g.Attrs["compound"])
	assert.Equal(t, "#24292E", g.Attrs["fontcolor"])
	assert.Equal(t, "record", g.NodeAttrs["shape"])
	assert.Empty(t, g.Clusters)
}

func TestLegend(t *testing.T) {
	scheme := testScheme()
	g, err := Legend("R&D", scheme)
	require.NoError(t, err)

	require.Len(t, g.Nodes, 1)
	n := g.Nodes[0]
	assert.True(t, n.HTML)
	assert.Contains(t, n.Label, "Legend of R&amp;D architecture")
	for _, name := range []string{domain.ColorProxy, domain.ColorPort, domain.ColorLink, domain.ColorImage, domain.ColorContainer, domain.ColorNetwork, domain.ColorVM} {
		assert.Contains(t, n.Label, `BGCOLOR="`+scheme[name]+`"`)
	}
}

func TestLegendMissingColor(t *testing.T) {
	scheme := testScheme()
	delete(scheme, domain.ColorVM)

	_, err := Legend("Acme", scheme)
	assert.ErrorIs(t, err, domain.ErrMissingColor)
}
