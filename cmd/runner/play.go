package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play [character]",
	Short: "Start a run",
	Long: `Start a run right away, skipping the title menu.
The character defaults to the first one in the config.

Controls:
  Space/Up/W      - Jump (hold to jump again on landing)
  Left click      - Jump
  Right drag up   - Jump (virtual stick)
  P/Esc           - Pause / continue
  R               - Restart (from the pause or game over menu)
  B               - Exit to the title menu (from a menu)
  Ctrl+S          - Save a screenshot to ~/.runner/screenshots
  Q/Ctrl+C        - Quit

Examples:
  runner play
  runner play eve
  runner play adam --seed 42
  runner play --config ./my-runner.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	runnerCfg, err := loadRunnerConfig()
	if err != nil {
		return err
	}

	character := runnerCfg.Characters[0].Key
	if len(args) == 1 {
		character = args[0]
	}
	if _, ok := runnerCfg.Character(character); !ok {
		return fmt.Errorf("unknown character %q (run 'runner characters' to list them)", character)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	rt := runtimeConfig()
	result, err := tui.Run(tui.GameOptions{
		Config:    runnerCfg,
		Character: character,
		Runtime:   rt,
		Store:     store,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	logger.Info("run finished", "character", character, "score", result.Score)

	// Exit to Main Menu lands on the title menu.
	if result.BackToMenu {
		return menuLoop(runnerCfg, store, rt)
	}
	return nil
}
