package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lifetime results",
	Long:  `Reports solve rate and recent games from the archive.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()
		var cfg config
		if err := loadConfig(&cfg); err != nil {
			return err
		}

		ctx := cmd.Context()
		db, err := store.NewDatabase(ctx, cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				logger.Error("close archive", errors.SlogError(closeErr))
			}
		}()

		repo := store.NewTranscriptRepository(db, logger)
		stats, err := repo.Stats(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("Lifetime record"))
		if stats.Games == 0 {
			fmt.Fprintln(out, mutedStyle.Render("No cases on file. Play one with `gumshoe play`."))
			return nil
		}
		fmt.Fprintf(out, "  cases:          %d\n", stats.Games)
		fmt.Fprintf(out, "  solved:         %d (%.0f%%)\n", stats.Solved, stats.SolveRate()*100)
		fmt.Fprintf(out, "  avg. questions: %.1f\n", stats.AvgQuestions)
		fmt.Fprintf(out, "  best score:     %.0f\n", stats.BestScore)

		recent, err := repo.RecentGames(ctx, 10)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, titleStyle.Render("Recent cases"))
		for _, g := range recent {
			result := contradictionStyle.Render("unsolved")
			if g.Correct {
				result = corroborationStyle.Render("solved")
			}
			fmt.Fprintf(out, "  %s  %s  %s  score %.0f in %d questions\n",
				g.PlayedAt.Format("2006-01-02 15:04"), g.CaseID, result, g.Score, g.Questions)
		}

		liars, err := repo.Contradictions(ctx)
		if err != nil {
			return err
		}
		if len(liars) > 0 {
			fmt.Fprintln(out, titleStyle.Render("Most caught in contradictions"))
			for speaker, n := range liars {
				fmt.Fprintf(out, "  %s: %d\n", speaker, n)
			}
		}
		return nil
	},
}
