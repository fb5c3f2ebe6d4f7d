package cli

import (
	"fmt"
	"os"

	"github.com/harshith-ashok/insurance-llm/internal/model"
	"github.com/harshith-ashok/insurance-llm/internal/pipeline"
	"github.com/harshith-ashok/insurance-llm/internal/server"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	serveAddr    string
	serveWorkers int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP question-answering service",
	Long: `Serve starts the HTTP API:

  POST /api/v1/query   {"documents": "<url>", "questions": ["..."]}
  GET  /health

Authentication uses a bearer token from INSURANCE_LLM_BEARER_TOKEN; an
unset token disables the check.

Example:
  insurance-llm serve --addr :8000 --provider openai --model gpt-4`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8000", "listen address")
	serveCmd.Flags().IntVar(&serveWorkers, "workers", 4, "concurrent questions per request")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Local development convenience; a missing .env is fine
	_ = godotenv.Load()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Server.Addr = serveAddr
	cfg.Server.QuestionWorkers = serveWorkers
	cfg.Server.BearerToken = os.Getenv("INSURANCE_LLM_BEARER_TOKEN")

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	return server.New(cfg.Server, p).Run()
}

// buildConfig assembles configuration from defaults, env, and flags.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	cfg.LLM.EmbeddingModel = embedModel
	cfg.LLM.Timeout = int(llmTimeout.Seconds())
	cfg.Cache.Enabled = !noCache
	cfg.Cache.Dir = cacheDir
	cfg.HTTP.RespectRobots = respectRobots

	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return cfg, nil
}
