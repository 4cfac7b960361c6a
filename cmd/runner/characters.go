package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/runner"
)

var charactersCmd = &cobra.Command{
	Use:   "characters",
	Short: "List the playable characters",
	Long:  `Shows every character in the runner config with its high score.`,
	RunE:  runCharacters,
}

func runCharacters(_ *cobra.Command, _ []string) error {
	runnerCfg, err := loadRunnerConfig()
	if err != nil {
		return err
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	fmt.Printf("Characters (%s):\n", runnerCfg.Level)
	fmt.Println()

	// Calculate column widths
	maxKeyLen := 3 // "Key" header
	for _, ch := range runnerCfg.Characters {
		maxKeyLen = max(maxKeyLen, len(ch.Key))
	}

	fmt.Printf("  %-*s  %-10s  %s\n", maxKeyLen, "Key", "Name", "Best")
	fmt.Printf("  %-*s  %-10s  %s\n", maxKeyLen, "---", "----", "----")

	for _, ch := range runnerCfg.Characters {
		best := 0
		if store != nil {
			if v, ok, err := store.Get(runner.HighScoreKey(runnerCfg.Level, ch.Key)); err == nil && ok {
				best = v
			}
		}
		fmt.Printf("  %-*s  %-10s  %05d\n", maxKeyLen, ch.Key, ch.Name, best)
	}

	fmt.Println()
	fmt.Println("Run 'runner play <key>' to start a run.")
	return nil
}
