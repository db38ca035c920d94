package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	cinequest "github.com/cinequest/cinequest-go"
)

func newRateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Rate movies and review your ratings",
	}
	cmd.AddCommand(newRateSetCmd())
	cmd.AddCommand(newRateListCmd())
	cmd.AddCommand(newRateDeleteCmd())
	cmd.AddCommand(newRateStatsCmd())
	return cmd
}

func newRateSetCmd() *cobra.Command {
	var movieID int
	var score float64
	var comment string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Rate a movie (creates or updates your rating)",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := cinequest.RatingRequest{MovieID: movieID, Score: score, Comment: comment}
			if err := cinequest.ValidateRatingRequest(req); err != nil {
				return err
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			userID, err := currentUserID(c)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			rating, err := c.SetRating(ctx, userID, req)
			if err != nil {
				log.Error().Err(err).Int("movie_id", movieID).Msg("set rating failed")
				return err
			}
			fmt.Printf("Rated movie %d: %.1f/10\n", rating.MovieID, rating.Score)

			announceNewBadges(ctx, c, userID)
			return nil
		},
	}

	cmd.Flags().IntVar(&movieID, "movie-id", 0, "Movie ID (required)")
	cmd.Flags().Float64Var(&score, "score", 0, "Score 0-10, one decimal (required)")
	cmd.Flags().StringVar(&comment, "comment", "", "Optional comment (max 500 chars)")
	_ = cmd.MarkFlagRequired("movie-id")
	_ = cmd.MarkFlagRequired("score")

	return cmd
}

func newRateListCmd() *cobra.Command {
	var page, size int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your ratings",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			userID, err := currentUserID(c)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			result, err := c.GetUserRatings(ctx, userID, page, size)
			if err != nil {
				return err
			}
			if len(result.Content) == 0 {
				fmt.Println("No ratings yet")
				return nil
			}
			for _, r := range result.Content {
				line := fmt.Sprintf("%8d  %.1f/10  %s", r.MovieID, r.Score, r.CreatedAt.Format("2006-01-02"))
				if r.Comment != "" {
					line += "  " + r.Comment
				}
				fmt.Println(line)
			}
			fmt.Printf("Page %d of %d (%d ratings)\n", result.Number+1, result.TotalPages, result.TotalElements)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page number (0-based)")
	cmd.Flags().IntVar(&size, "size", 20, "Page size")
	return cmd
}

func newRateDeleteCmd() *cobra.Command {
	var movieID int

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete your rating for a movie",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			err = c.DeleteRating(ctx, movieID)
			switch {
			case errors.Is(err, cinequest.ErrNotFound):
				fmt.Printf("No rating for movie %d\n", movieID)
				return nil
			case err != nil:
				return err
			}
			fmt.Printf("Deleted rating for movie %d\n", movieID)
			return nil
		},
	}

	cmd.Flags().IntVar(&movieID, "movie-id", 0, "Movie ID (required)")
	_ = cmd.MarkFlagRequired("movie-id")
	return cmd
}

func newRateStatsCmd() *cobra.Command {
	var movieID int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the rating aggregate for a movie",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			stats, err := c.GetMovieRatingStats(ctx, movieID)
			if err != nil {
				return err
			}
			fmt.Printf("Movie %d: %.1f/10 from %d ratings\n", stats.MovieID, stats.AverageScore, stats.TotalRatings)
			return nil
		},
	}

	cmd.Flags().IntVar(&movieID, "movie-id", 0, "Movie ID (required)")
	_ = cmd.MarkFlagRequired("movie-id")
	return cmd
}
