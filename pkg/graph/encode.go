package graph

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/medkg/medgraph/pkg/logger"
)

// SaveGraph persists a graph to disk, choosing the format from the file
// extension: .graphml or .json (node-link). Both formats round-trip node and
// edge counts and all attributes through LoadGraph.
func SaveGraph(g *Graph, path string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".graphml":
		data, err = encodeGraphML(g)
	case ".json":
		data, err = encodeNodeLink(g)
	default:
		return fmt.Errorf("unsupported graph format: %s", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("failed to encode graph:\n%w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write graph file:\n%w", err)
	}

	logger.Info("[Graph] saved", "path", path, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return nil
}

// LoadGraph reads a graph previously written by SaveGraph, dispatching on the
// file extension.
func LoadGraph(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file:\n%w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".graphml":
		return decodeGraphML(data)
	case ".json":
		return decodeNodeLink(data)
	default:
		return nil, fmt.Errorf("unsupported graph format: %s", filepath.Ext(path))
	}
}

// Node-link JSON

type nodeLinkDoc struct {
	Directed   bool    `json:"directed"`
	Multigraph bool    `json:"multigraph"`
	Nodes      []*Node `json:"nodes"`
	Links      []*Edge `json:"links"`
}

func encodeNodeLink(g *Graph) ([]byte, error) {
	doc := nodeLinkDoc{
		Directed:   true,
		Multigraph: false,
		Nodes:      g.Nodes(),
		Links:      g.Edges(),
	}
	return json.MarshalIndent(doc, "", "  ")
}

func decodeNodeLink(data []byte) (*Graph, error) {
	var doc nodeLinkDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode node-link graph:\n%w", err)
	}

	g := NewGraph()
	for _, n := range doc.Nodes {
		g.AddNode(n)
	}
	for _, e := range doc.Links {
		g.AddEdge(e)
	}
	return g, nil
}

// GraphML

type graphmlDoc struct {
	XMLName xml.Name     `xml:"graphml"`
	Xmlns   string       `xml:"xmlns,attr"`
	Keys    []graphmlKey `xml:"key"`
	Graph   graphmlGraph `xml:"graph"`
}

type graphmlKey struct {
	ID   string `xml:"id,attr"`
	For  string `xml:"for,attr"`
	Name string `xml:"attr.name,attr"`
	Type string `xml:"attr.type,attr"`
}

type graphmlGraph struct {
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphmlNode `xml:"node"`
	Edges       []graphmlEdge `xml:"edge"`
}

type graphmlNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphmlData `xml:"data"`
}

type graphmlEdge struct {
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphmlData `xml:"data"`
}

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

func encodeGraphML(g *Graph) ([]byte, error) {
	doc := graphmlDoc{
		Xmlns: "http://graphml.graphdrawing.org/xmlns",
		Keys: []graphmlKey{
			{ID: "name", For: "node", Name: "name", Type: "string"},
			{ID: "type", For: "node", Name: "type", Type: "string"},
			{ID: "source_doc", For: "node", Name: "source_doc", Type: "string"},
			{ID: "description", For: "node", Name: "description", Type: "string"},
			{ID: "attributes", For: "node", Name: "attributes", Type: "string"},
			{ID: "rel_type", For: "edge", Name: "type", Type: "string"},
			{ID: "confidence", For: "edge", Name: "confidence", Type: "double"},
			{ID: "rel_description", For: "edge", Name: "description", Type: "string"},
		},
		Graph: graphmlGraph{EdgeDefault: "directed"},
	}

	for _, n := range g.Nodes() {
		doc.Graph.Nodes = append(doc.Graph.Nodes, graphmlNode{
			ID: n.Key,
			Data: []graphmlData{
				{Key: "name", Value: n.Name},
				{Key: "type", Value: n.Type},
				{Key: "source_doc", Value: n.SourceDoc},
				{Key: "description", Value: n.Description},
				{Key: "attributes", Value: n.Attributes},
			},
		})
	}

	for _, e := range g.Edges() {
		doc.Graph.Edges = append(doc.Graph.Edges, graphmlEdge{
			Source: e.Source,
			Target: e.Target,
			Data: []graphmlData{
				{Key: "rel_type", Value: e.Type},
				{Key: "confidence", Value: strconv.FormatFloat(e.Confidence, 'g', -1, 64)},
				{Key: "rel_description", Value: e.Description},
			},
		})
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), data...), nil
}

func decodeGraphML(data []byte) (*Graph, error) {
	var doc graphmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode graphml:\n%w", err)
	}

	g := NewGraph()
	for _, xn := range doc.Graph.Nodes {
		n := &Node{Key: xn.ID}
		for _, d := range xn.Data {
			switch d.Key {
			case "name":
				n.Name = d.Value
			case "type":
				n.Type = d.Value
			case "source_doc":
				n.SourceDoc = d.Value
			case "description":
				n.Description = d.Value
			case "attributes":
				n.Attributes = d.Value
			}
		}
		g.AddNode(n)
	}

	for _, xe := range doc.Graph.Edges {
		e := &Edge{Source: xe.Source, Target: xe.Target}
		for _, d := range xe.Data {
			switch d.Key {
			case "rel_type":
				e.Type = d.Value
			case "confidence":
				if v, err := strconv.ParseFloat(d.Value, 64); err == nil {
					e.Confidence = v
				}
			case "rel_description":
				e.Description = d.Value
			}
		}
		g.AddEdge(e)
	}

	return g, nil
}
