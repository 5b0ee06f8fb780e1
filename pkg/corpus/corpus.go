package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/medkg/medgraph/pkg/logger"
)

// Loader yields a corpus as a mapping from document identifier to raw text.
// Identifiers are stable across runs so that extraction provenance and
// checkpoint resume line up with the same documents.
type Loader interface {
	Load(ctx context.Context) (map[string]string, error)
}

// DirLoader reads a corpus from a directory tree. Plain .txt files contribute
// their whole content. A .json file contributes either its "text" field or,
// for an array of objects, one document per element with a "#index" suffix on
// the identifier.
type DirLoader struct {
	Dir string
}

func NewDirLoader(dir string) *DirLoader {
	return &DirLoader{Dir: dir}
}

func (l *DirLoader) Load(ctx context.Context) (map[string]string, error) {
	if _, err := os.Stat(l.Dir); err != nil {
		return nil, fmt.Errorf("corpus directory not readable:\n%w", err)
	}

	texts := map[string]string{}

	err := filepath.WalkDir(l.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(l.Dir, path)
		if err != nil {
			return err
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt":
			content, err := os.ReadFile(path)
			if err != nil {
				logger.Error("[Corpus] failed to read file", "path", rel, "err", err)
				return nil
			}
			texts[rel] = string(content)
		case ".json":
			content, err := os.ReadFile(path)
			if err != nil {
				logger.Error("[Corpus] failed to read file", "path", rel, "err", err)
				return nil
			}
			for id, text := range extractJSONTexts(rel, content) {
				texts[id] = text
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk corpus directory:\n%w", err)
	}

	logger.Info("[Corpus] loaded documents", "dir", l.Dir, "count", len(texts))
	return texts, nil
}

// extractJSONTexts pulls document texts out of a decoded JSON corpus file.
// Files that hold neither a text object nor an array of them are skipped.
func extractJSONTexts(id string, content []byte) map[string]string {
	texts := map[string]string{}

	var single struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(content, &single); err == nil && single.Text != "" {
		texts[id] = single.Text
		return texts
	}

	var many []map[string]any
	if err := json.Unmarshal(content, &many); err == nil {
		for i, doc := range many {
			if text, ok := doc["text"].(string); ok && text != "" {
				texts[fmt.Sprintf("%s#%d", id, i)] = text
			}
		}
		return texts
	}

	logger.Warn("[Corpus] skipping json file without text content", "path", id)
	return texts
}
