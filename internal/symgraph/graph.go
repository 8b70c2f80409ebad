// Package symgraph builds a minimal reference graph over one parsed
// tree: a node per global symbol definition and per global Symbol it
// references, and an edge from a definition to every global Symbol (not
// SymbolDef) atom inside the compound that definition heads. Symbol
// atoms outside any defining compound add no edge. It is deliberately
// coarse — no scoping,
// no shadowing, no .lang-aware resolution — intended for dead-code
// hints and navigation, not for semantic analysis.
//
// Design goals carried over unchanged:
//   - Deterministic output (sorted nodes/edges, deduped)
//   - Safe defaults; tolerant of malformed/partial trees
package symgraph

import (
	"sort"

	"nif/internal/ast"
)

// Graph is a simple directed graph: Nodes are global symbol names
// (their raw, already dot-expanded byte form as a string), Edges run
// from a defining symbol to every other global symbol its subtree
// mentions.
type Graph struct {
	Nodes []string
	Edges [][2]string
}

// builder accumulates deduped nodes/edges while walking one module's
// tree, then materializes them into a sorted Graph. Kept as a small
// type rather than bare maps passed between functions so the
// dedup/sort bookkeeping lives in one place next to the fields it
// owns.
type builder struct {
	nodes map[string]struct{}
	edges map[[2]string]struct{}
}

func newBuilder() *builder {
	return &builder{
		nodes: make(map[string]struct{}, 64),
		edges: make(map[[2]string]struct{}, 128),
	}
}

func (b *builder) node(n string) {
	if n != "" {
		b.nodes[n] = struct{}{}
	}
}

func (b *builder) edge(from, to string) {
	if from == "" || to == "" || from == to {
		return
	}
	b.edges[[2]string{from, to}] = struct{}{}
}

func (b *builder) graph() Graph {
	nodes := make([]string, 0, len(b.nodes))
	for n := range b.nodes {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	if len(nodes) == 0 {
		nodes = nil
	}

	edges := make([][2]string, 0, len(b.edges))
	for e := range b.edges {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})
	return Graph{Nodes: nodes, Edges: edges}
}

// BuildFrom walks module's body and returns the reference graph: one
// node per global SymbolDef found anywhere in the tree, with an edge
// from that symbol to every other global symbol referenced within its
// own defining compound (i.e. within the parenthesized form it heads).
func BuildFrom(arena *ast.Arena, module *ast.Module) Graph {
	b := newBuilder()
	for _, ref := range module.Body {
		collectDefs(arena, ref, b)
	}
	return b.graph()
}

// collectDefs walks the tree looking for compounds headed by a global
// SymbolDef. For each one found, it records the defining symbol as a
// node and scans that compound's remaining children for every global
// Symbol reference, adding an edge per distinct one. It then recurses
// into all children regardless, since definitions nest.
func collectDefs(arena *ast.Arena, ref ast.Ref, b *builder) {
	node := arena.Get(ref)
	if node.Kind != ast.KindCompound {
		return
	}
	if len(node.Children) > 0 {
		first := arena.Get(node.Children[0])
		if first.Kind == ast.KindSymbolDef && ast.IsGlobalSymbol(first.Bytes) {
			from := string(first.Bytes)
			b.node(from)
			for _, child := range node.Children[1:] {
				collectUses(arena, child, from, b)
			}
		}
	}
	for _, child := range node.Children {
		collectDefs(arena, child, b)
	}
}

// collectUses walks a subtree recording an edge from->sym for every
// global Symbol atom it finds, and registers sym as a node even if its
// own definition lies elsewhere (or nowhere) in this tree, so a
// reference to an undefined symbol still surfaces instead of vanishing.
func collectUses(arena *ast.Arena, ref ast.Ref, from string, b *builder) {
	node := arena.Get(ref)
	switch node.Kind {
	case ast.KindSymbol:
		if ast.IsGlobalSymbol(node.Bytes) {
			to := string(node.Bytes)
			b.node(to)
			b.edge(from, to)
		}
	case ast.KindCompound:
		for _, child := range node.Children {
			collectUses(arena, child, from, b)
		}
	}
}

// Unreferenced returns every node in g with no incoming edge: a
// symbol that is defined but never mentioned inside another global
// definition's compound, a candidate for nifvalidate's dead-code hints.
func Unreferenced(g Graph) []string {
	referenced := make(map[string]struct{}, len(g.Edges))
	for _, e := range g.Edges {
		referenced[e[1]] = struct{}{}
	}
	var out []string
	for _, n := range g.Nodes {
		if _, ok := referenced[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}
