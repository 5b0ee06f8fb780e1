package graph

import (
	"fmt"

	"github.com/medkg/medgraph/pkg/common"
)

// MergeEntityMentions collapses raw mentions into canonical entities in a
// single pass over encounter order. The first occurrence of a (type, name)
// pair becomes canonical and receives the next sequential id; later
// occurrences only backfill an empty description. Running the merge again
// over its own output yields the same entities with the same ids.
func MergeEntityMentions(mentions []common.EntityMention) []common.Entity {
	byKey := map[string]int{}
	entities := []common.Entity{}

	for _, m := range mentions {
		key := m.Type + ":" + m.Name
		if idx, seen := byKey[key]; seen {
			if entities[idx].Description == "" && m.Description != "" {
				entities[idx].Description = m.Description
			}
			continue
		}

		byKey[key] = len(entities)
		entities = append(entities, common.Entity{
			ID:          int64(len(entities)),
			Name:        m.Name,
			Type:        m.Type,
			SourceDoc:   m.SourceDoc,
			Description: m.Description,
			Attributes:  m.Attributes,
		})
	}

	return entities
}

// MergeRelationMentions collapses raw relation mentions on their identity key
// (source, target, relation type). The mention with the strictly highest
// confidence survives; on ties the first-seen mention wins. Output preserves
// first-seen order, so the merge is idempotent.
func MergeRelationMentions(mentions []common.RelationMention) []common.Relation {
	byKey := map[string]int{}
	relations := []common.Relation{}

	for _, m := range mentions {
		key := fmt.Sprintf("%s:%d:%s:%d:%s",
			m.Source.Type, m.Source.ID, m.Target.Type, m.Target.ID, m.Type)

		if idx, seen := byKey[key]; seen {
			if m.Confidence > relations[idx].Confidence {
				relations[idx] = canonicalRelation(m)
			}
			continue
		}

		byKey[key] = len(relations)
		relations = append(relations, canonicalRelation(m))
	}

	return relations
}

func canonicalRelation(m common.RelationMention) common.Relation {
	return common.Relation{
		Source:      m.Source,
		SourceName:  m.SourceName,
		Target:      m.Target,
		TargetName:  m.TargetName,
		Type:        m.Type,
		Confidence:  m.Confidence,
		Description: m.Description,
	}
}
