package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/medkg/medgraph/pkg/ai"
	"github.com/medkg/medgraph/pkg/common"
	"github.com/medkg/medgraph/pkg/logger"
)

type questionEntity struct {
	Name string `json:"name" jsonschema_description:"实体名称"`
	Type string `json:"type" jsonschema_description:"实体类型"`
}

type questionEntityList struct {
	Entities []questionEntity `json:"entities"`
}

// analyzeQuestion identifies the entities and relation types a question asks
// about, with two independent structured calls. Either call failing degrades
// that dimension to empty; retrieval then simply matches less.
func (e *Engine) analyzeQuestion(
	ctx context.Context,
	traceID string,
	question string,
) ([]questionEntity, []string) {
	entities := e.questionEntities(ctx, question)
	relations := e.questionRelations(ctx, question)

	logger.Info("[Query] analyzed question", "trace", traceID, "entities", len(entities), "relations", len(relations))

	names := make([]string, 0, len(entities))
	for _, qe := range entities {
		names = append(names, qe.Name)
	}
	record(e.tracer, TraceEvent{TraceID: traceID, Kind: TraceEventQuestionEntities, Names: names})
	record(e.tracer, TraceEvent{TraceID: traceID, Kind: TraceEventQuestionRelations, Names: relations})

	return entities, relations
}

func (e *Engine) questionEntities(ctx context.Context, question string) []questionEntity {
	prompt := fmt.Sprintf(
		ai.QuestionEntityPrompt,
		strings.Join(common.EntityTypes, ", "),
		question,
	)

	var out questionEntityList
	err := e.ai.GenerateStructuredAs(
		ctx,
		"question_entities",
		"问题中识别的医学实体",
		prompt,
		&out,
		ai.WithMaxTokens(256),
	)
	if err != nil {
		logger.Error("[Query] question entity analysis failed", "err", err)
		return nil
	}

	entities := []questionEntity{}
	for _, qe := range out.Entities {
		if qe.Name == "" {
			continue
		}
		entities = append(entities, qe)
	}
	return entities
}

func (e *Engine) questionRelations(ctx context.Context, question string) []string {
	prompt := fmt.Sprintf(
		ai.QuestionRelationPrompt,
		strings.Join(common.RelationTypes, ", "),
		question,
	)

	value, err := e.ai.GenerateStructured(ctx, prompt, ai.WithMaxTokens(256))
	if err != nil {
		logger.Error("[Query] question relation analysis failed", "err", err)
		return nil
	}

	items, ok := value.([]any)
	if !ok {
		return nil
	}

	relations := []string{}
	for _, item := range items {
		if label, ok := item.(string); ok && label != "" {
			relations = append(relations, label)
		}
	}
	return relations
}
