package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/medkg/medgraph/pkg/ai"
	"github.com/medkg/medgraph/pkg/common"
	"github.com/medkg/medgraph/pkg/logger"
)

const minRelationConfidence = 0.6

// relationVocab maps an ordered (source type, target type) pair to the
// candidate relation types offered to the model for that pair.
var relationVocab = map[[2]string][]string{
	{"疾病", "症状"}:   {"相关症状", "表现为"},
	{"疾病", "药物"}:   {"治疗药物", "可用药物"},
	{"疾病", "检查项目"}: {"诊断方法", "检查手段"},
	{"疾病", "并发症"}:  {"导致", "引起"},
	{"疾病", "疾病"}:   {"相关疾病", "并发症"},
	{"药物", "疾病"}:   {"治疗", "预防"},
	{"治疗方法", "疾病"}: {"治疗", "适用于"},
	{"病因", "疾病"}:   {"导致", "引起"},
	{"疾病", "解剖部位"}: {"影响", "发生于"},
	{"药物", "解剖部位"}: {"作用于", "影响"},
}

var genericVocab = []string{"相关", "关联"}

// RelationExtractor drives relation analysis for one pipeline run. It keeps
// the set of already analyzed entity pairs so the same canonical pair is not
// sent to the model twice, even when it shows up in several documents. Create
// a fresh extractor per run; the set is not persisted.
type RelationExtractor struct {
	client    *GraphClient
	processed map[string]bool
}

func (c *GraphClient) NewRelationExtractor() *RelationExtractor {
	return &RelationExtractor{
		client:    c,
		processed: map[string]bool{},
	}
}

// Extract analyzes relations among the canonical entities of one document.
// Only pairs of differing entity types are considered, and each ordered type
// combination contributes at most the configured number of pairs. Failed
// generation calls cost the pair its relations but never stop the run.
func (x *RelationExtractor) Extract(
	ctx context.Context,
	entities []common.Entity,
) []common.RelationMention {
	if len(entities) < 2 {
		logger.Info("[Relations] not enough entities for relation analysis", "count", len(entities))
		return nil
	}

	// Group by type in first-encounter order so pair selection is
	// deterministic for a fixed entity list.
	typeOrder := []string{}
	byType := map[string][]common.Entity{}
	for _, e := range entities {
		if _, seen := byType[e.Type]; !seen {
			typeOrder = append(typeOrder, e.Type)
		}
		byType[e.Type] = append(byType[e.Type], e)
	}

	mentions := []common.RelationMention{}
	for _, sourceType := range typeOrder {
		for _, targetType := range typeOrder {
			if sourceType == targetType {
				continue
			}

			pairs := 0
			for _, source := range byType[sourceType] {
				if pairs >= x.client.maxPairsPerTypePair {
					break
				}
				for _, target := range byType[targetType] {
					if ctx.Err() != nil {
						return mentions
					}

					key := fmt.Sprintf("%d:%d", source.ID, target.ID)
					if x.processed[key] {
						continue
					}
					x.processed[key] = true
					pairs++

					mentions = append(mentions, x.analyzePair(ctx, source, target)...)

					if pairs >= x.client.maxPairsPerTypePair {
						break
					}
				}
			}
		}
	}

	logger.Info("[Relations] extracted relations", "count", len(mentions))
	return mentions
}

// analyzePair resolves the relations of one ordered entity pair. Shortcut
// rules are consulted before any generation call; when the candidate
// vocabulary only exists for the reverse type pair, source and target are
// swapped so the asserted relation keeps its natural direction.
func (x *RelationExtractor) analyzePair(
	ctx context.Context,
	source common.Entity,
	target common.Entity,
) []common.RelationMention {
	if asserted := x.client.shortcuts.Lookup(source, target); asserted != nil {
		logger.Info("[Relations] shortcut relation", "source", source.Name, "target", target.Name)
		mentions := []common.RelationMention{}
		for _, a := range asserted {
			mentions = append(mentions, common.RelationMention{
				Source:      source.Ref(),
				SourceName:  source.Name,
				Target:      target.Ref(),
				TargetName:  target.Name,
				Type:        a.Type,
				Confidence:  a.Confidence,
				Description: a.Description,
			})
		}
		return mentions
	}

	vocab, ok := relationVocab[[2]string{source.Type, target.Type}]
	if !ok {
		if vocab, ok = relationVocab[[2]string{target.Type, source.Type}]; ok {
			source, target = target, source
		}
	}
	if len(vocab) == 0 {
		vocab = genericVocab
	}

	prompt := fmt.Sprintf(
		ai.RelationAnalysisPrompt,
		source.Name, source.Type,
		target.Name, target.Type,
		strings.Join(vocab, "、"),
	)

	value, err := x.client.ai.GenerateStructured(ctx, prompt)
	if err != nil {
		logger.Warn("[Relations] relation analysis failed", "source", source.Name, "target", target.Name, "err", err)
		return nil
	}

	mentions := []common.RelationMention{}
	for _, c := range relationCandidates(value) {
		mention := common.RelationMention{
			Source:      source.Ref(),
			SourceName:  source.Name,
			Target:      target.Ref(),
			TargetName:  target.Name,
			Type:        c.relationType,
			Confidence:  c.confidence,
			Description: c.description,
		}
		if err := common.ValidateRelationMention(mention); err != nil {
			logger.Warn("[Relations] skipping invalid relation", "source", source.Name, "target", target.Name, "err", err)
			continue
		}
		mentions = append(mentions, mention)
	}

	if len(mentions) > 0 {
		logger.Info("[Relations] found relations", "source", source.Name, "target", target.Name, "count", len(mentions))
	}
	return mentions
}

type relationCandidate struct {
	relationType string
	description  string
	confidence   float64
}

// relationCandidates interprets a decoded model response. The expected shape
// is an array of relation objects; an object holding that array under a
// "relations" key is treated the same. Anything else means no relation was
// found. Candidates without a type are dropped, missing confidence defaults
// to full, and low-confidence candidates are filtered out.
func relationCandidates(value any) []relationCandidate {
	var items []any
	switch v := value.(type) {
	case []any:
		items = v
	case map[string]any:
		if rels, ok := v["relations"].([]any); ok {
			items = rels
		} else {
			logger.Warn("[Relations] unexpected response shape", "value", v)
			return nil
		}
	default:
		return nil
	}

	candidates := []relationCandidate{}
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}

		relationType, _ := obj["type"].(string)
		if relationType == "" {
			continue
		}

		confidence := 1.0
		if c, ok := obj["confidence"].(float64); ok {
			confidence = c
		}
		if confidence < minRelationConfidence {
			continue
		}

		description, _ := obj["description"].(string)
		candidates = append(candidates, relationCandidate{
			relationType: relationType,
			description:  description,
			confidence:   confidence,
		})
	}

	return candidates
}
