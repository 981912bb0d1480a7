// Package visualize renders a DTG and the current EOG partition with
// goccy/go-graphviz, adapted from the teacher's hand-rolled DOT string
// builder (deleted root graphviz.go) in the idiom KDE-qml-lsp's
// cmd/qml-cfg/main.go uses for its control-flow graph dumps: build a
// cgraph.Graph node-by-node, then render.
package visualize

import (
	"strconv"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/mypop/reachability/internal/dtg"
)

// DTGToFile renders graph's structure (nodes and transitions) to outPath
// in the given goccy/go-graphviz format (e.g. graphviz.PNG, graphviz.SVG).
func DTGToFile(graph *dtg.Graph, format graphviz.Format, outPath string) error {
	g := graphviz.New()
	gv, err := g.Graph()
	if err != nil {
		return err
	}
	defer func() {
		gv.Close()
		g.Close()
	}()

	nodes := map[dtg.NodeID]*cgraph.Node{}
	for _, n := range graph.Nodes() {
		gn, err := gv.CreateNode(strconv.Itoa(int(n.ID)))
		if err != nil {
			return err
		}
		gn.SetLabel(n.String())
		nodes[n.ID] = gn
	}
	for _, n := range graph.Nodes() {
		for _, t := range graph.OutgoingTransitions(n.ID) {
			e, err := gv.CreateEdge(strconv.Itoa(int(t.ID)), nodes[t.From], nodes[t.To])
			if err != nil {
				return err
			}
			e.SetLabel(t.String())
		}
	}

	return g.RenderFilename(gv, format, outPath)
}

// Partition is a snapshot of the EOG union-find structure suitable for
// rendering: one flat chain of nodes per equivalence class (no graphviz
// clusters).
type Partition struct {
	// Classes maps a representative name to the names of every object
	// currently in its equivalence class.
	Classes map[string][]string
}

// PartitionToFile renders part as a graph with one chain of edges per
// equivalence class, each node labelled with its member's own name (the
// node's id is "representative:member") — a visual grouping, not a DTG.
func PartitionToFile(part Partition, format graphviz.Format, outPath string) error {
	g := graphviz.New()
	gv, err := g.Graph()
	if err != nil {
		return err
	}
	defer func() {
		gv.Close()
		g.Close()
	}()

	for rep, members := range part.Classes {
		var prev *cgraph.Node
		for _, name := range members {
			n, err := gv.CreateNode(rep + ":" + name)
			if err != nil {
				return err
			}
			n.SetLabel(name)
			if prev != nil {
				if _, err := gv.CreateEdge(prev.Name()+"->"+n.Name(), prev, n); err != nil {
					return err
				}
			}
			prev = n
		}
	}

	return g.RenderFilename(gv, format, outPath)
}
