package graph

import (
	"encoding/json"

	"github.com/medkg/medgraph/pkg/common"
	"github.com/medkg/medgraph/pkg/logger"
)

// Assemble builds a fresh graph from canonical entities and relations. It
// always starts from an empty graph; incremental mutation of a previously
// assembled graph is not supported. Relations whose endpoints are not among
// the entities are dropped silently.
func Assemble(entities []common.Entity, relations []common.Relation) *Graph {
	g := NewGraph()

	for _, e := range entities {
		attributes := "{}"
		if len(e.Attributes) > 0 {
			if raw, err := json.Marshal(e.Attributes); err == nil {
				attributes = string(raw)
			}
		}

		g.AddNode(&Node{
			Key:         e.Key(),
			Name:        e.Name,
			Type:        e.Type,
			SourceDoc:   e.SourceDoc,
			Description: e.Description,
			Attributes:  attributes,
		})
	}

	dropped := 0
	for _, r := range relations {
		ok := g.AddEdge(&Edge{
			Source:      r.Source.Key(),
			Target:      r.Target.Key(),
			Type:        r.Type,
			Confidence:  r.Confidence,
			Description: r.Description,
		})
		if !ok {
			dropped++
		}
	}

	if dropped > 0 {
		logger.Debug("[Graph] dropped dangling relations", "count", dropped)
	}
	logger.Info("[Graph] assembled", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	return g
}
