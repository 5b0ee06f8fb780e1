package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/medkg/medgraph/pkg/common"
	"github.com/medkg/medgraph/pkg/logger"
)

const (
	entitiesFile  = "entities.json"
	relationsFile = "relations.json"
)

func (c *GraphClient) entitiesPath() string {
	return filepath.Join(c.outputDir, entitiesFile)
}

func (c *GraphClient) relationsPath() string {
	return filepath.Join(c.outputDir, relationsFile)
}

// writeJSON snapshots a value to disk as a plain overwrite. Snapshots are
// full copies, not deltas, so a later write fully supersedes an earlier one.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot:\n%w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot:\n%w", err)
	}
	return nil
}

// loadCachedEntityMentions reads a previously written entities artifact. Both
// mid-run mention snapshots and the final canonical artifact decode into
// mentions; the merge that follows is idempotent either way. A missing or
// unreadable file means the stage has to run.
func (c *GraphClient) loadCachedEntityMentions() ([]common.EntityMention, bool) {
	data, err := os.ReadFile(c.entitiesPath())
	if err != nil {
		return nil, false
	}

	var mentions []common.EntityMention
	if err := json.Unmarshal(data, &mentions); err != nil {
		logger.Warn("[Checkpoint] ignoring unreadable entities artifact", "path", c.entitiesPath(), "err", err)
		return nil, false
	}

	logger.Info("[Checkpoint] loaded cached entities", "path", c.entitiesPath(), "count", len(mentions))
	return mentions, true
}

func (c *GraphClient) loadCachedRelationMentions() ([]common.RelationMention, bool) {
	data, err := os.ReadFile(c.relationsPath())
	if err != nil {
		return nil, false
	}

	var mentions []common.RelationMention
	if err := json.Unmarshal(data, &mentions); err != nil {
		logger.Warn("[Checkpoint] ignoring unreadable relations artifact", "path", c.relationsPath(), "err", err)
		return nil, false
	}

	logger.Info("[Checkpoint] loaded cached relations", "path", c.relationsPath(), "count", len(mentions))
	return mentions, true
}
