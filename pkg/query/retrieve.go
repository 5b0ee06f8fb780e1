package query

import (
	"fmt"
	"strings"

	"github.com/medkg/medgraph/pkg/ai"
	"github.com/medkg/medgraph/pkg/graph"
)

// groundingLimit caps how many retrieved items enter the answer prompt. The
// Result lists returned to callers are never capped.
const groundingLimit = 5

const (
	noEntitiesPlaceholder  = "未找到相关实体。"
	noRelationsPlaceholder = "未找到相关关系。"
)

// retrieve matches question entities against the graph and collects the
// edges around the matched nodes.
//
// A node matches a question entity when the node name contains the question
// name, compared case-insensitively. The containment is one-directional: a
// short question name finds longer node names, not the other way around.
// A type hint on the question entity additionally requires exact type
// equality. Matched nodes contribute their outgoing and incoming edges; when
// the question named relation types, only edges of those types are kept.
func (e *Engine) retrieve(
	traceID string,
	qEntities []questionEntity,
	qRelations []string,
) ([]RetrievedEntity, []RetrievedRelation) {
	matched := []*graph.Node{}
	matchedKeys := map[string]bool{}

	for _, node := range e.graph.Nodes() {
		nodeName := strings.ToLower(node.Name)
		for _, qe := range qEntities {
			if !strings.Contains(nodeName, strings.ToLower(qe.Name)) {
				continue
			}
			if qe.Type != "" && node.Type != qe.Type {
				continue
			}
			if !matchedKeys[node.Key] {
				matchedKeys[node.Key] = true
				matched = append(matched, node)
			}
			break
		}
	}

	wantRelation := map[string]bool{}
	for _, label := range qRelations {
		wantRelation[label] = true
	}

	seenEdges := map[*graph.Edge]bool{}
	relations := []RetrievedRelation{}
	for _, node := range matched {
		for _, edge := range append(e.graph.OutEdges(node.Key), e.graph.InEdges(node.Key)...) {
			if seenEdges[edge] {
				continue
			}
			seenEdges[edge] = true

			if len(wantRelation) > 0 && !wantRelation[edge.Type] {
				continue
			}

			relations = append(relations, RetrievedRelation{
				SourceName:  e.nodeName(edge.Source),
				TargetName:  e.nodeName(edge.Target),
				Type:        edge.Type,
				Confidence:  edge.Confidence,
				Description: edge.Description,
			})
		}
	}

	entities := make([]RetrievedEntity, 0, len(matched))
	keys := make([]string, 0, len(matched))
	for _, node := range matched {
		entities = append(entities, RetrievedEntity{
			Key:         node.Key,
			Name:        node.Name,
			Type:        node.Type,
			Description: node.Description,
		})
		keys = append(keys, node.Key)
	}

	record(e.tracer, TraceEvent{TraceID: traceID, Kind: TraceEventMatchedNodes, NodeKeys: keys})
	record(e.tracer, TraceEvent{TraceID: traceID, Kind: TraceEventRetrievedEdges, EdgeCount: len(relations)})

	return entities, relations
}

func (e *Engine) nodeName(key string) string {
	if node, ok := e.graph.GetEntity(key); ok {
		return node.Name
	}
	return key
}

// buildAnswerPrompt formats the grounding block from the first entries of
// each retrieval list and combines it with the question.
func buildAnswerPrompt(
	question string,
	entities []RetrievedEntity,
	relations []RetrievedRelation,
) string {
	var entityBlock strings.Builder
	for i, entity := range entities {
		if i >= groundingLimit {
			break
		}
		fmt.Fprintf(&entityBlock, "%d. %s (类型: %s)", i+1, entity.Name, entity.Type)
		if entity.Description != "" {
			fmt.Fprintf(&entityBlock, "\n   描述: %s", entity.Description)
		}
		entityBlock.WriteString("\n")
	}

	var relationBlock strings.Builder
	for i, relation := range relations {
		if i >= groundingLimit {
			break
		}
		fmt.Fprintf(&relationBlock, "%d. %s --[%s]--> %s", i+1, relation.SourceName, relation.Type, relation.TargetName)
		if relation.Description != "" {
			fmt.Fprintf(&relationBlock, "\n   描述: %s", relation.Description)
		}
		relationBlock.WriteString("\n")
	}

	entityText := entityBlock.String()
	if entityText == "" {
		entityText = noEntitiesPlaceholder
	}
	relationText := relationBlock.String()
	if relationText == "" {
		relationText = noRelationsPlaceholder
	}

	return fmt.Sprintf(ai.AnswerPrompt, question, entityText, relationText)
}
