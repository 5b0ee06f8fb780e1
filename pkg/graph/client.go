package graph

import (
	"fmt"

	"github.com/medkg/medgraph/pkg/ai"

	"github.com/pkoukk/tiktoken-go"
)

const (
	defaultCheckpointInterval  = 5
	defaultMaxPromptTokens     = 1000
	defaultMaxPairsPerTypePair = 5
)

// GraphClient carries everything one pipeline run needs: the generation
// client, output location, and the tuning knobs for extraction. All pipeline
// state lives here or in values passed along explicitly; there is no
// package-level state.
type GraphClient struct {
	ai        ai.GenerationClient
	outputDir string

	checkpointInterval  int
	maxPromptTokens     int
	maxPairsPerTypePair int
	shortcuts           ShortcutTable

	encoder *tiktoken.Tiktoken
}

// NewGraphClientParams configures a GraphClient. Zero values fall back to
// the defaults; Shortcuts nil means the built-in table, use an empty table
// to disable shortcuts entirely.
type NewGraphClientParams struct {
	AI        ai.GenerationClient
	OutputDir string

	CheckpointInterval  int
	MaxPromptTokens     int
	MaxPairsPerTypePair int
	Shortcuts           ShortcutTable
}

func NewGraphClient(params NewGraphClientParams) (*GraphClient, error) {
	if params.AI == nil {
		return nil, fmt.Errorf("generation client is required")
	}

	if params.CheckpointInterval <= 0 {
		params.CheckpointInterval = defaultCheckpointInterval
	}
	if params.MaxPromptTokens <= 0 {
		params.MaxPromptTokens = defaultMaxPromptTokens
	}
	if params.MaxPairsPerTypePair <= 0 {
		params.MaxPairsPerTypePair = defaultMaxPairsPerTypePair
	}
	if params.Shortcuts == nil {
		params.Shortcuts = DefaultShortcuts()
	}

	encoder, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to load token encoder:\n%w", err)
	}

	return &GraphClient{
		ai:        params.AI,
		outputDir: params.OutputDir,

		checkpointInterval:  params.CheckpointInterval,
		maxPromptTokens:     params.MaxPromptTokens,
		maxPairsPerTypePair: params.MaxPairsPerTypePair,
		shortcuts:           params.Shortcuts,

		encoder: encoder,
	}, nil
}

// truncateTokens caps the text at the configured prompt budget, cutting on
// token boundaries.
func (c *GraphClient) truncateTokens(text string) string {
	tokens := c.encoder.Encode(text, nil, nil)
	if len(tokens) <= c.maxPromptTokens {
		return text
	}
	return c.encoder.Decode(tokens[:c.maxPromptTokens])
}
