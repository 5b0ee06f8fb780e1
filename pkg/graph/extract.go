package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/medkg/medgraph/pkg/ai"
	"github.com/medkg/medgraph/pkg/common"
	"github.com/medkg/medgraph/pkg/logger"
)

type extractedEntityList struct {
	Entities []extractedEntity `json:"entities"`
}

type extractedEntity struct {
	Name        string `json:"name" jsonschema_description:"实体名称"`
	Type        string `json:"type" jsonschema_description:"实体类型"`
	Description string `json:"description,omitempty" jsonschema_description:"实体描述"`
}

// ExtractEntities runs one schema-constrained extraction call over a single
// document and returns the mentions found in it. The document text is capped
// at the client's token budget before prompting. Mentions missing a name or
// type are skipped with a warning, and repeated (name, type) pairs within the
// same document are collapsed. A non-nil error means the generation call
// itself failed; callers log it and move on with an empty result.
func (c *GraphClient) ExtractEntities(
	ctx context.Context,
	docID string,
	text string,
) ([]common.EntityMention, error) {
	prompt := fmt.Sprintf(
		ai.EntityExtractionPrompt,
		strings.Join(common.EntityTypes, "、"),
		c.truncateTokens(text),
	)

	var out extractedEntityList
	err := c.ai.GenerateStructuredAs(
		ctx,
		"medical_entities",
		"从医学文本中提取的实体列表",
		prompt,
		&out,
	)
	if err != nil {
		return nil, fmt.Errorf("entity extraction failed for %s:\n%w", docID, err)
	}

	mentions := []common.EntityMention{}
	seen := map[string]bool{}
	for _, e := range out.Entities {
		mention := common.EntityMention{
			Name:        e.Name,
			Type:        e.Type,
			SourceDoc:   docID,
			Description: e.Description,
		}
		if err := common.ValidateEntityMention(mention); err != nil {
			logger.Warn("[Extract] skipping incomplete entity", "doc", docID, "name", e.Name, "type", e.Type)
			continue
		}

		key := e.Name + "_" + e.Type
		if seen[key] {
			continue
		}
		seen[key] = true
		mentions = append(mentions, mention)
	}

	logger.Info("[Extract] extracted entities", "doc", docID, "count", len(mentions))
	return mentions, nil
}
