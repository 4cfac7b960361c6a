package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-runner/internal/config"
)

var flagConfigResolved bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the runner configuration",
	Long: `Print the default runner configuration as YAML.
Save it to ~/.runner/configs/runner.yaml or pass it with --config to tweak
physics, spawn cadence, the speed ramp and the character list.

With --resolved, prints the configuration that would be used instead.

Examples:
  runner config > ~/.runner/configs/runner.yaml
  runner config --resolved --config ./my-runner.yaml`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigResolved, "resolved", false, "Print the loaded config instead of the default")
}

func runConfig(_ *cobra.Command, _ []string) error {
	if !flagConfigResolved {
		_, err := os.Stdout.Write(config.DefaultYAML())
		return err
	}

	cfg, err := loadRunnerConfig()
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}
