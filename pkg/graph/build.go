package graph

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/medkg/medgraph/internal/util"
	"github.com/medkg/medgraph/pkg/common"
	"github.com/medkg/medgraph/pkg/logger"
)

// BuildGraph runs the full pipeline over a corpus: per-document entity
// extraction, global entity dedup, per-document relation analysis over the
// canonical entities, relation dedup, and assembly. Documents are processed
// in sorted identifier order so runs over the same corpus are repeatable.
//
// Stage artifacts (entities.json, relations.json) in the output directory
// short-circuit their stage on resume; delete them to force a fresh run.
// Generation failures cost a document or pair its results and the run
// continues. Only filesystem errors and context cancellation abort.
func (c *GraphClient) BuildGraph(
	ctx context.Context,
	corpus map[string]string,
) (*Graph, error) {
	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory:\n%w", err)
	}

	mentions, err := c.entityStage(ctx, corpus)
	if err != nil {
		return nil, err
	}

	entities := MergeEntityMentions(mentions)
	logger.Info("[Build] canonical entities", "count", len(entities))
	if err := writeJSON(c.entitiesPath(), entities); err != nil {
		return nil, err
	}

	relMentions, err := c.relationStage(ctx, corpus, entities)
	if err != nil {
		return nil, err
	}

	relations := MergeRelationMentions(relMentions)
	logger.Info("[Build] canonical relations", "count", len(relations))
	if err := writeJSON(c.relationsPath(), relations); err != nil {
		return nil, err
	}

	return Assemble(entities, relations), nil
}

func (c *GraphClient) entityStage(
	ctx context.Context,
	corpus map[string]string,
) ([]common.EntityMention, error) {
	if cached, ok := c.loadCachedEntityMentions(); ok {
		return cached, nil
	}

	docIDs := sortedDocIDs(corpus)
	logger.Info("[Build] extracting entities", "documents", len(docIDs))

	mentions := []common.EntityMention{}
	for i, docID := range docIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text := util.PreprocessText(corpus[docID])
		docMentions, err := c.ExtractEntities(ctx, docID, text)
		if err != nil {
			logger.Error("[Build] entity extraction failed, skipping document", "doc", docID, "err", err)
			continue
		}
		mentions = append(mentions, docMentions...)

		if (i+1)%c.checkpointInterval == 0 {
			if err := writeJSON(c.entitiesPath(), mentions); err != nil {
				return nil, err
			}
			logger.Info("[Build] checkpoint", "documents", i+1, "mentions", len(mentions))
		}
	}

	return mentions, nil
}

func (c *GraphClient) relationStage(
	ctx context.Context,
	corpus map[string]string,
	entities []common.Entity,
) ([]common.RelationMention, error) {
	if cached, ok := c.loadCachedRelationMentions(); ok {
		return cached, nil
	}

	// Entities are grouped back to their source documents; relation analysis
	// only pairs entities that were seen together.
	docOrder := []string{}
	byDoc := map[string][]common.Entity{}
	for _, e := range entities {
		if _, seen := byDoc[e.SourceDoc]; !seen {
			docOrder = append(docOrder, e.SourceDoc)
		}
		byDoc[e.SourceDoc] = append(byDoc[e.SourceDoc], e)
	}

	logger.Info("[Build] extracting relations", "documents", len(docOrder))

	extractor := c.NewRelationExtractor()
	mentions := []common.RelationMention{}
	processed := 0
	for _, docID := range docOrder {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if _, ok := corpus[docID]; !ok {
			logger.Warn("[Build] document missing from corpus, skipping relations", "doc", docID)
			continue
		}

		mentions = append(mentions, extractor.Extract(ctx, byDoc[docID])...)
		processed++

		if processed%c.checkpointInterval == 0 {
			if err := writeJSON(c.relationsPath(), mentions); err != nil {
				return nil, err
			}
			logger.Info("[Build] checkpoint", "documents", processed, "mentions", len(mentions))
		}
	}

	return mentions, nil
}

func sortedDocIDs(corpus map[string]string) []string {
	ids := make([]string, 0, len(corpus))
	for id := range corpus {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
