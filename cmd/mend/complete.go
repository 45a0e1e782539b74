package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mend-ai/mend/internal/jsonrepair"
	"github.com/mend-ai/mend/internal/llm"
	"github.com/mend-ai/mend/internal/llm/providers"
)

var (
	completeModel   string
	completeBaseURL string
	completeRetries int
	completeJSON    bool
	completeStats   bool
)

var completeCmd = &cobra.Command{
	Use:   "complete <prompt>",
	Short: "Run a prompt through the resilient completion controller",
	Long: `Sends a prompt to the configured local model and applies the full
completion protocol: timeout racing, continuation prompting for truncated
output, and error-specific retries. With --json the response is additionally
run through the JSON repair pipeline.`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

func runComplete(cmd *cobra.Command, args []string) error {
	prompt := args[0]

	genCfg := cfg.GeneratorConfig()
	if completeModel != "" {
		genCfg.Model = completeModel
	}
	if completeBaseURL != "" {
		genCfg.BaseURL = completeBaseURL
	}

	generator, err := providers.NewGenerator(genCfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	if checker, ok := generator.(llm.HealthChecker); ok {
		if status := checker.Health(ctx); !status.IsHealthy() {
			slog.Warn("generator health check failed", "state", status.State, "message", status.Message)
		}
	}

	tracker := llm.NewUsageTracker()
	opts := cfg.ControllerOptions()
	if cmd.Flags().Changed("max-retries") {
		opts = append(opts, llm.WithMaxRetries(completeRetries))
	}
	opts = append(opts, llm.WithTracker(tracker))

	controller := llm.NewController(opts...)

	text, err := controller.Complete(ctx, generator, prompt)
	if err != nil {
		return err
	}

	if completeJSON {
		value, decodeErr := jsonrepair.Decode(text)
		if decodeErr != nil {
			return decodeErr
		}
		encoded, encodeErr := json.MarshalIndent(value, "", "  ")
		if encodeErr != nil {
			return fmt.Errorf("failed to encode recovered value: %w", encodeErr)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), llm.SanitizeResponse(text))
	}

	if completeStats {
		printStats(cmd, tracker)
	}

	return nil
}

func printStats(cmd *cobra.Command, tracker *llm.DefaultUsageTracker) {
	totals := tracker.Totals()
	var recoveries []string
	for strategy, count := range totals.Recoveries {
		recoveries = append(recoveries, fmt.Sprintf("%s=%d", strategy, count))
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "attempts=%d continuations=%d recoveries=[%s]\n",
		totals.Attempts, totals.Continuations, strings.Join(recoveries, " "))
}

func init() {
	completeCmd.Flags().StringVar(&completeModel, "model", "", "Model to generate with (overrides config)")
	completeCmd.Flags().StringVar(&completeBaseURL, "base-url", "", "Model server URL (overrides config)")
	completeCmd.Flags().IntVar(&completeRetries, "max-retries", llm.DefaultMaxRetries, "Retry limit shared by continuation and error recovery")
	completeCmd.Flags().BoolVar(&completeJSON, "json", false, "Decode the response as JSON through the repair pipeline")
	completeCmd.Flags().BoolVar(&completeStats, "stats", false, "Print completion statistics to stderr")
}
