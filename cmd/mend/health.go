package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mend-ai/mend/internal/llm"
	"github.com/mend-ai/mend/internal/llm/providers"
	"github.com/mend-ai/mend/internal/types"
)

var (
	healthModel   string
	healthBaseURL string
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the configured model server and print its health status",
	Long: `Probes the configured generator and prints its health status as JSON.
Exits non-zero when the generator is unhealthy.`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	genCfg := cfg.GeneratorConfig()
	if healthModel != "" {
		genCfg.Model = healthModel
	}
	if healthBaseURL != "" {
		genCfg.BaseURL = healthBaseURL
	}

	generator, err := providers.NewGenerator(genCfg)
	if err != nil {
		return err
	}

	checker, ok := generator.(llm.HealthChecker)
	if !ok {
		return types.NewError(llm.ErrProviderNotFound, fmt.Sprintf("provider %q does not report health", genCfg.Type))
	}

	status := checker.Health(cmd.Context())

	encoded, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode health status: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))

	if status.State == types.HealthStateUnhealthy {
		return types.NewError(llm.ErrProviderUnavailable, "generator is unhealthy")
	}
	return nil
}

func init() {
	healthCmd.Flags().StringVar(&healthModel, "model", "", "Model to check (overrides config)")
	healthCmd.Flags().StringVar(&healthBaseURL, "base-url", "", "Model server URL (overrides config)")
}
