package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [character]",
	Short: "Show the best runs",
	Long: `Display the best recorded runs, for one character or for all.

With --clear, deletes the runs and the high score of the character.

Examples:
  runner scores
  runner scores adam --limit 20
  runner scores eve --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the character's runs and high score")
}

func runScores(_ *cobra.Command, args []string) error {
	runnerCfg, err := loadRunnerConfig()
	if err != nil {
		return err
	}

	character := ""
	if len(args) == 1 {
		character = args[0]
		if _, ok := runnerCfg.Character(character); !ok {
			return fmt.Errorf("unknown character %q (run 'runner characters' to list them)", character)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagScoresClear {
		if character == "" {
			return errors.New("--clear needs a character")
		}
		if err := store.ClearScores(runnerCfg.Level, character); err != nil {
			return err
		}
		logger.Info("scores cleared", "character", character)
		fmt.Printf("Cleared scores for %s.\n", character)
		return nil
	}

	runs, err := store.TopRuns(runnerCfg.Level, character, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}

	title := "all characters"
	if character != "" {
		title = character
	}
	fmt.Printf("Best runs - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'runner play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-5s  %-10s  %s\n", "Rank", "Score", "Character", "Date")
	fmt.Printf("  %-4s  %-5s  %-10s  %s\n", "----", "-----", "---------", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %05d  %-10s  %s\n", i+1, r.Score, r.Character, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if character != "" {
		stats, err := store.GetCharacterStats(runnerCfg.Level, character)
		if err == nil {
			fmt.Println()
			fmt.Printf("Best: %05d  Runs: %d  Average: %.1f\n", stats.HighScore, stats.RunsCount, stats.AvgScore)
		}
		return nil
	}

	entries, err := store.HighScores()
	if err == nil && len(entries) > 0 {
		fmt.Println()
		fmt.Println("High scores:")
		for _, e := range entries {
			fmt.Printf("  %-28s  %05d\n", e.Key, e.Value)
		}
	}
	return nil
}
