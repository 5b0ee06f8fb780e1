package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/medkg/medgraph/internal/util"
	"github.com/medkg/medgraph/pkg/ai"
	oai "github.com/medkg/medgraph/pkg/ai/ollama"
	gai "github.com/medkg/medgraph/pkg/ai/openai"
	"github.com/medkg/medgraph/pkg/corpus"
	s3corpus "github.com/medkg/medgraph/pkg/corpus/s3"
	"github.com/medkg/medgraph/pkg/graph"
	"github.com/medkg/medgraph/pkg/logger"
	"github.com/medkg/medgraph/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	aiClient := newAIClient()

	loader := newCorpusLoader(ctx)
	texts, err := loader.Load(ctx)
	if err != nil {
		logger.Fatal("Could not load corpus", "err", err)
	}
	if len(texts) == 0 {
		logger.Fatal("Corpus is empty")
	}

	outputDir := util.GetEnvString("OUTPUT_DIR", "data/processed")
	client, err := graph.NewGraphClient(graph.NewGraphClientParams{
		AI:              aiClient,
		OutputDir:       outputDir,
		MaxPromptTokens: util.GetEnvInt("MAX_PROMPT_TOKENS", 1000),
	})
	if err != nil {
		logger.Fatal("Could not create graph client", "err", err)
	}

	g, err := client.BuildGraph(ctx, texts)
	if err != nil {
		logger.Fatal("Build failed", "err", err)
	}

	graphFile := "medical_kg.graphml"
	if util.GetEnvString("GRAPH_FORMAT", "graphml") == "json" {
		graphFile = "medical_kg.json"
	}
	if err := graph.SaveGraph(g, filepath.Join(outputDir, graphFile)); err != nil {
		logger.Fatal("Could not save graph", "err", err)
	}

	metrics := aiClient.GetMetrics()
	logger.Info("Build complete",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"input_tokens", metrics.InputTokens,
		"output_tokens", metrics.OutputTokens,
		"duration_ms", metrics.DurationMs,
	)
}

func newAIClient() ai.GenerationClient {
	adapter := util.GetEnv("AI_ADAPTER")

	switch adapter {
	case "ollama":
		client, err := oai.NewClient(oai.NewClientParams{
			ExtractionModel: util.GetEnvString("AI_CHAT_EXTRACT_MODEL", "qwen2.5"),
			AnswerModel:     util.GetEnvString("AI_CHAT_ANSWER_MODEL", "qwen2.5"),

			BaseURL: util.GetEnv("AI_CHAT_URL"),
			ApiKey:  util.GetEnv("AI_CHAT_KEY"),

			MaxConcurrentRequests: 1,
		})
		if err != nil {
			logger.Fatal("Could not create Ollama client", "err", err)
		}
		return client
	default:
		return gai.NewClient(gai.NewClientParams{
			ExtractionModel: util.GetEnvString("AI_CHAT_EXTRACT_MODEL", "deepseek-chat"),
			AnswerModel:     util.GetEnvString("AI_CHAT_ANSWER_MODEL", "deepseek-chat"),

			BaseURL: util.GetEnvString("AI_CHAT_URL", "https://api.deepseek.com/v1"),
			APIKey:  util.GetEnv("AI_CHAT_KEY"),
		})
	}
}

func newCorpusLoader(ctx context.Context) corpus.Loader {
	if util.GetEnv("CORPUS_SOURCE") == "s3" {
		client, err := s3corpus.NewClient(ctx, s3corpus.NewClientParams{
			Region:    util.GetEnv("AWS_REGION"),
			Endpoint:  util.GetEnv("AWS_ENDPOINT"),
			AccessKey: util.GetEnv("AWS_ACCESS_KEY"),
			SecretKey: util.GetEnv("AWS_SECRET_KEY"),
		})
		if err != nil {
			logger.Fatal("Could not create S3 client", "err", err)
		}
		return s3corpus.NewLoader(client, util.GetEnv("AWS_BUCKET"), util.GetEnv("AWS_PREFIX"))
	}

	return corpus.NewDirLoader(util.GetEnvString("DATA_DIR", "data/raw"))
}
