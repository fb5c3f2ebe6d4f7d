package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool

	// Provider flags shared by serve and ask
	llmProvider   string
	llmModel      string
	embedModel    string
	llmTimeout    time.Duration
	cacheDir      string
	noCache       bool
	respectRobots bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "insurance-llm",
	Short: "Answer natural-language questions against policy documents",
	Long: `insurance-llm retrieves the clauses of a policy document (PDF, DOCX,
HTML, or plain text) most relevant to a question and synthesizes a
structured decision: answer, rationale, confidence, and the supporting
clauses.

Run it as an HTTP service with "serve", or ask one-off questions from
the command line with "ask".`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("insurance-llm v1.0.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.insurance-llm/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.PersistentFlags().StringVar(&llmProvider, "provider", "openai", "LLM provider (openai, ollama)")
	rootCmd.PersistentFlags().StringVar(&llmModel, "model", "gpt-4", "completion model name")
	rootCmd.PersistentFlags().StringVar(&embedModel, "embedding-model", "text-embedding-ada-002", "embedding model name")
	rootCmd.PersistentFlags().DurationVar(&llmTimeout, "llm-timeout", 30*time.Second, "timeout per provider call")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "disk cache directory (empty keeps cache in memory only)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable the document cache")
	rootCmd.PersistentFlags().BoolVar(&respectRobots, "respect-robots", false, "honor robots.txt when fetching documents")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("llm.provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("llm.model", rootCmd.PersistentFlags().Lookup("model"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.insurance-llm")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("INSURANCE_LLM")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}
