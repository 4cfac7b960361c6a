package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/platform/tui"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the title menu",
	Long: `Start the game at the title menu.

Pick a character with the arrow keys and press Enter to run.
Exiting a run from the pause or game over menu returns here.

Controls:
  Up/Down/j/k  - Choose character
  Enter        - Start the run
  Tab          - Scoreboard
  Q            - Quit

Examples:
  runner menu
  runner menu --fps 30
  runner menu --db ./scores.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	runnerCfg, err := loadRunnerConfig()
	if err != nil {
		return err
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	return menuLoop(runnerCfg, store, runtimeConfig())
}

// menuLoop alternates between the title menu, the scoreboard and runs
// until the user quits.
func menuLoop(runnerCfg config.RunnerConfig, store *storage.Store, rt core.RuntimeConfig) error {
	for {
		menuResult, err := tui.RunMenu(runnerCfg, store, rt)
		if err != nil {
			return err
		}
		rt = menuResult.Config

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(runnerCfg, store, rt.ScreenW, rt.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			return nil
		}

		// Fresh seed per run unless one was pinned.
		if flagSeed == 0 {
			rt.Seed = time.Now().UnixNano()
		}

		result, err := tui.Run(tui.GameOptions{
			Config:    runnerCfg,
			Character: menuResult.Character,
			Runtime:   rt,
			Store:     store,
			Logger:    logger,
		})
		if err != nil {
			return fmt.Errorf("running game: %w", err)
		}
		logger.Info("run finished", "character", menuResult.Character, "score", result.Score)

		if !result.BackToMenu {
			return nil
		}
	}
}
