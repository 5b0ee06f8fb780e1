package query

import (
	"github.com/medkg/medgraph/pkg/logger"
)

type TraceEventKind string

const (
	TraceEventQuestionEntities  TraceEventKind = "question_entities"
	TraceEventQuestionRelations TraceEventKind = "question_relations"
	TraceEventMatchedNodes      TraceEventKind = "matched_nodes"
	TraceEventRetrievedEdges    TraceEventKind = "retrieved_edges"
	TraceEventAnswer            TraceEventKind = "answer"
)

// TraceEvent is an extensible event envelope for query tracing.
// Additive changes to this struct are backward compatible for implementers.
type TraceEvent struct {
	TraceID string
	Kind    TraceEventKind

	Names    []string
	NodeKeys []string

	EdgeCount  int
	DurationMs int64
	Error      string
}

// Tracer is a sink for query tracing events.
//
// Implementers can forward events to logs, telemetry, or custom
// post-processing pipelines.
type Tracer interface {
	Record(event TraceEvent)
}

// MultiTracer fan-outs trace events to multiple tracers.
type MultiTracer []Tracer

func (m MultiTracer) Record(event TraceEvent) {
	for _, t := range m {
		if t == nil {
			continue
		}
		t.Record(event)
	}
}

// LogTracer writes trace events to the process log.
type LogTracer struct{}

func (LogTracer) Record(event TraceEvent) {
	logger.Debug("[Query] trace",
		"trace", event.TraceID,
		"kind", event.Kind,
		"names", event.Names,
		"nodes", event.NodeKeys,
		"edges", event.EdgeCount,
		"duration_ms", event.DurationMs,
		"err", event.Error,
	)
}

func record(t Tracer, event TraceEvent) {
	if t == nil {
		return
	}
	t.Record(event)
}
