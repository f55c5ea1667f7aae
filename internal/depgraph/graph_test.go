package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// levelOf returns the index of the level containing node, or -1.
func levelOf(levels [][]string, node string) int {
	for i, level := range levels {
		for _, n := range level {
			if n == node {
				return i
			}
		}
	}
	return -1
}

func TestLevelsNoEdges(t *testing.T) {
	t.Parallel()

	g := New()
	g.Add("a.txt")
	g.Add("b.txt")
	g.Add("c.txt")

	levels, err := g.Levels()
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.ElementsMatch(t, []string{"a.txt", "b.txt", "c.txt"}, levels[0])
}

func TestLevelsChain(t *testing.T) {
	t.Parallel()

	// main.css → theme.css → font.woff2
	g := New()
	require.NoError(t, g.AddEdge("theme.css", "font.woff2"))
	require.NoError(t, g.AddEdge("main.css", "theme.css"))

	levels, err := g.Levels()
	require.NoError(t, err)
	require.Len(t, levels, 3)
	assert.Equal(t, []string{"font.woff2"}, levels[0])
	assert.Equal(t, []string{"theme.css"}, levels[1])
	assert.Equal(t, []string{"main.css"}, levels[2])
}

func TestLevelsDiamond(t *testing.T) {
	t.Parallel()

	// top references left and right, both reference base.
	g := New()
	require.NoError(t, g.AddEdge("top", "left"))
	require.NoError(t, g.AddEdge("top", "right"))
	require.NoError(t, g.AddEdge("left", "base"))
	require.NoError(t, g.AddEdge("right", "base"))

	levels, err := g.Levels()
	require.NoError(t, err)
	require.Equal(t, 0, levelOf(levels, "base"))
	assert.Equal(t, 1, levelOf(levels, "left"))
	assert.Equal(t, 1, levelOf(levels, "right"))
	assert.Equal(t, 2, levelOf(levels, "top"))
}

func TestLevelsMixedIndependent(t *testing.T) {
	t.Parallel()

	g := New()
	require.NoError(t, g.AddEdge("a.css", "b.css"))
	g.Add("standalone.png")

	levels, err := g.Levels()
	require.NoError(t, err)
	require.Equal(t, 0, levelOf(levels, "b.css"))
	assert.Equal(t, 0, levelOf(levels, "standalone.png"))
	assert.Equal(t, 1, levelOf(levels, "a.css"))
}

func TestCycleDetection(t *testing.T) {
	t.Parallel()

	g := New()
	require.NoError(t, g.AddEdge("a.css", "b.css"))
	require.NoError(t, g.AddEdge("b.css", "a.css"))

	_, err := g.Levels()
	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"a.css", "b.css"}, cycle.Members)
}

func TestCycleDetectionDeep(t *testing.T) {
	t.Parallel()

	// One isolated cycle behind an acyclic prefix.
	g := New()
	require.NoError(t, g.AddEdge("entry.css", "x.css"))
	require.NoError(t, g.AddEdge("x.css", "y.css"))
	require.NoError(t, g.AddEdge("y.css", "z.css"))
	require.NoError(t, g.AddEdge("z.css", "x.css"))

	_, err := g.Levels()
	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"x.css", "y.css", "z.css"}, cycle.Members)
}

func TestSelfEdgeRejected(t *testing.T) {
	t.Parallel()

	g := New()
	assert.Error(t, g.AddEdge("a.css", "a.css"))
}

func TestAddEdgeRegistersNodes(t *testing.T) {
	t.Parallel()

	g := New()
	require.NoError(t, g.AddEdge("a", "b"))
	levels, err := g.Levels()
	require.NoError(t, err)
	require.Len(t, levels, 2)
}
