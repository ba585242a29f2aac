package graphviz

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/melih/graphbot/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph() *domain.Graph {
	g := &domain.Graph{
		Name:      "Acme architecture",
		Comment:   "Acme architecture",
		Attrs:     domain.Attributes{"compound": "true"},
		NodeAttrs: domain.Attributes{"shape": "record"},
	}
	vm := g.AddCluster(&domain.Cluster{
		ID:    "cluster_vm1",
		Label: `Virtual machine : "vm1"`,
		Attrs: domain.Attributes{"fillcolor": "#fff"},
	})
	vm.AddNode(&domain.Node{ID: "web_vm1", Label: "{ <web> web }", Attrs: domain.Attributes{"color": "black"}})
	vm.AddEdge(&domain.Edge{
		From:  domain.Ref{Node: "8080_vm1"},
		To:    domain.Ref{Node: "web_vm1", Slot: "80/tcp"},
		Attrs: domain.Attributes{"color": "red"},
	})
	return g
}

func TestMarshal(t *testing.T) {
	want := "// Acme architecture\n" +
		"digraph \"Acme architecture\" {\n" +
		"\tgraph [compound=\"true\"]\n" +
		"\tnode [shape=\"record\"]\n" +
		"\tsubgraph \"cluster_vm1\" {\n" +
		"\t\tfillcolor=\"#fff\"\n" +
		"\t\tlabel=\"Virtual machine : \\\"vm1\\\"\"\n" +
		"\t\t\"web_vm1\" [color=\"black\" label=\"{ <web> web }\"]\n" +
		"\t\t\"8080_vm1\" -> \"web_vm1\":\"80/tcp\" [color=\"red\"]\n" +
		"\t}\n" +
		"}\n"

	assert.Equal(t, want, string(Marshal(sampleGraph())))
}

func TestMarshalHTMLNode(t *testing.T) {
	g := &domain.Graph{Name: "legend"}
	g.AddNode(&domain.Node{ID: "legend", Label: "<TABLE><TR><TD>x</TD></TR></TABLE>", HTML: true})

	assert.Contains(t, string(Marshal(g)), "\t\"legend\" [label=<<TABLE><TR><TD>x</TD></TR></TABLE>>]\n")
}

func TestRenderDOTOnly(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "vm1")

	out, err := NewRenderer(FormatDOT).Render(context.Background(), sampleGraph(), base)
	require.NoError(t, err)
	assert.Equal(t, base+".gv", out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, Marshal(sampleGraph()), data)
}

func TestRenderMissingBinary(t *testing.T) {
	base := filepath.Join(t.TempDir(), "vm1")

	_, err := NewRenderer("png").WithBinary("graphbot-no-such-dot").Render(context.Background(), sampleGraph(), base)
	assert.Error(t, err)
}

func TestRenderPNG(t *testing.T) {
	if _, err := exec.LookPath("dot"); err != nil {
		t.Skip("graphviz is not installed")
	}
	base := filepath.Join(t.TempDir(), "vm1")

	out, err := NewRenderer("svg").Render(context.Background(), sampleGraph(), base)
	require.NoError(t, err)
	assert.Equal(t, base+".svg", out)
	assert.FileExists(t, out)
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "web_vm1", `"web_vm1"`},
		{"quotes", `say "hi"`, `"say \"hi\""`},
		{"record escapes kept", `\{ a \| b \}`, `"\{ a \| b \}"`},
		{"trailing backslash", `C:\`, `"C:\\"`},
		{"backslash before quote", `a\"b`, `"a\\\"b"`},
		{"two trailing backslashes", `a\\`, `"a\\\\"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quote(tt.in))
		})
	}
}

func TestMarshalTrailingBackslashLabel(t *testing.T) {
	g := &domain.Graph{Name: "vm1"}
	g.AddNode(&domain.Node{ID: `shop.test\`, Label: "shop"})

	assert.Contains(t, string(Marshal(g)), "\t\"shop.test\\\\\" [label=\"shop\"]\n")
}
