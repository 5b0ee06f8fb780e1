package query

import (
	"context"
	"fmt"
	"time"

	"github.com/medkg/medgraph/pkg/ai"
	"github.com/medkg/medgraph/pkg/graph"
	"github.com/medkg/medgraph/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ApologyAnswer is returned when answer generation fails. Retrieval results
// still accompany it so callers can show what the graph knew.
const ApologyAnswer = "抱歉，我无法回答这个问题。"

// Engine answers questions grounded in an assembled knowledge graph.
type Engine struct {
	ai     ai.GenerationClient
	graph  *graph.Graph
	tracer Tracer
}

type NewEngineParams struct {
	AI    ai.GenerationClient
	Graph *graph.Graph

	// Tracer is optional; nil disables tracing.
	Tracer Tracer
}

func NewEngine(params NewEngineParams) (*Engine, error) {
	if params.AI == nil {
		return nil, fmt.Errorf("generation client is required")
	}
	if params.Graph == nil {
		return nil, fmt.Errorf("graph is required")
	}

	return &Engine{
		ai:     params.AI,
		graph:  params.Graph,
		tracer: params.Tracer,
	}, nil
}

// RetrievedEntity is one graph node matched for a question.
type RetrievedEntity struct {
	Key         string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// RetrievedRelation is one graph edge retrieved for a question.
type RetrievedRelation struct {
	SourceName  string  `json:"source_name"`
	TargetName  string  `json:"target_name"`
	Type        string  `json:"type"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description,omitempty"`
}

// Result carries the generated answer together with the full retrieval that
// grounded it. The lists are uncapped; only the grounding block inside the
// prompt is limited.
type Result struct {
	Answer    string              `json:"answer"`
	Entities  []RetrievedEntity   `json:"entities"`
	Relations []RetrievedRelation `json:"relations"`
}

// Answer runs the retrieval pipeline for one question: question analysis,
// graph matching, and grounded answer generation. Analysis failures degrade
// to empty retrievals and a generation failure degrades to a fixed apology;
// the only returned error is context cancellation.
func (e *Engine) Answer(ctx context.Context, question string) (Result, error) {
	traceID := gonanoid.Must(8)
	start := time.Now()

	qEntities, qRelations := e.analyzeQuestion(ctx, traceID, question)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	entities, relations := e.retrieve(traceID, qEntities, qRelations)

	prompt := buildAnswerPrompt(question, entities, relations)
	answer, err := e.ai.GenerateText(
		ctx,
		prompt,
		ai.WithMaxTokens(512),
		ai.WithTemperature(0.7),
		ai.WithTopP(0.9),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		logger.Error("[Query] answer generation failed", "trace", traceID, "err", err)
		answer = ApologyAnswer
	}

	record(e.tracer, TraceEvent{
		TraceID:    traceID,
		Kind:       TraceEventAnswer,
		EdgeCount:  len(relations),
		DurationMs: time.Since(start).Milliseconds(),
	})

	return Result{
		Answer:    answer,
		Entities:  entities,
		Relations: relations,
	}, nil
}
