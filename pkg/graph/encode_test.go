package graph

import (
	"path/filepath"
	"testing"
)

func TestGraphRoundTrip(t *testing.T) {
	g := Assemble(testEntities(), testRelations())

	tests := []struct {
		name string
		file string
	}{
		{"node-link json", "medical_kg.json"},
		{"graphml", "medical_kg.graphml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)

			if err := SaveGraph(g, path); err != nil {
				t.Fatalf("SaveGraph() error = %v", err)
			}

			loaded, err := LoadGraph(path)
			if err != nil {
				t.Fatalf("LoadGraph() error = %v", err)
			}

			if loaded.NodeCount() != g.NodeCount() {
				t.Errorf("NodeCount() = %d, want %d", loaded.NodeCount(), g.NodeCount())
			}
			if loaded.EdgeCount() != g.EdgeCount() {
				t.Errorf("EdgeCount() = %d, want %d", loaded.EdgeCount(), g.EdgeCount())
			}

			for _, want := range g.Nodes() {
				got, ok := loaded.GetEntity(want.Key)
				if !ok {
					t.Fatalf("node %q missing after round trip", want.Key)
				}
				if *got != *want {
					t.Errorf("node %q = %+v, want %+v", want.Key, got, want)
				}
			}

			for i, want := range g.Edges() {
				got := loaded.Edges()[i]
				if *got != *want {
					t.Errorf("edge %d = %+v, want %+v", i, got, want)
				}
			}
		})
	}
}

func TestSaveGraphUnsupportedFormat(t *testing.T) {
	g := NewGraph()
	if err := SaveGraph(g, filepath.Join(t.TempDir(), "kg.csv")); err == nil {
		t.Fatal("SaveGraph() error = nil, want unsupported format error")
	}
}

func TestLoadGraphMissingFile(t *testing.T) {
	if _, err := LoadGraph(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("LoadGraph() error = nil, want error")
	}
}
