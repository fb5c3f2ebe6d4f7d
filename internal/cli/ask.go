package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/harshith-ashok/insurance-llm/internal/pipeline"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	askQuestions []string
	askTimeout   time.Duration
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <document-url>",
	Short: "Answer questions against a document from the command line",
	Long: `Ask fetches a single document and answers one or more questions
against it, printing the structured decisions as JSON.

Example:
  insurance-llm ask https://example.com/policy.pdf \
    -q "Is knee surgery covered?" \
    -q "What is the waiting period for maternity?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringArrayVarP(&askQuestions, "question", "q", nil, "question to answer (repeatable)")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 2*time.Minute, "overall timeout")
	_ = askCmd.MarkFlagRequired("question")
}

func runAsk(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	docURL := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Document: %s\n", docURL)
		fmt.Fprintf(os.Stderr, "Questions: %d\n", len(askQuestions))
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	answers, err := p.Run(ctx, docURL, askQuestions)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(answers)
}
