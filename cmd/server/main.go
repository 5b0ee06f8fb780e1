package main

import (
	"github.com/medkg/medgraph/internal/server"
	mid "github.com/medkg/medgraph/internal/server/middleware"
	"github.com/medkg/medgraph/internal/util"
	"github.com/medkg/medgraph/pkg/ai"
	oai "github.com/medkg/medgraph/pkg/ai/ollama"
	gai "github.com/medkg/medgraph/pkg/ai/openai"
	"github.com/medkg/medgraph/pkg/graph"
	"github.com/medkg/medgraph/pkg/logger"
	"github.com/medkg/medgraph/pkg/logger/console"
	"github.com/medkg/medgraph/pkg/query"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	graphPath := util.GetEnvString("GRAPH_PATH", "data/processed/medical_kg.graphml")
	g, err := graph.LoadGraph(graphPath)
	if err != nil {
		logger.Fatal("Could not load graph", "path", graphPath, "err", err)
	}
	logger.Info("Loaded graph", "path", graphPath, "nodes", g.NodeCount(), "edges", g.EdgeCount())

	var tracer query.Tracer
	if debug {
		tracer = query.LogTracer{}
	}

	engine, err := query.NewEngine(query.NewEngineParams{
		AI:     newAIClient(),
		Graph:  g,
		Tracer: tracer,
	})
	if err != nil {
		logger.Fatal("Could not create query engine", "err", err)
	}

	server.Init(&mid.App{
		Graph:  g,
		Engine: engine,
	})
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
