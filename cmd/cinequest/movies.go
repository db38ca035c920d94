package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	cinequest "github.com/cinequest/cinequest-go"
	"github.com/cinequest/cinequest-go/internal/debounce"
)

func newMoviesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "movies",
		Short: "Browse and search the movie catalog",
	}
	cmd.AddCommand(newMoviesPopularCmd())
	cmd.AddCommand(newMoviesSearchCmd())
	cmd.AddCommand(newMoviesShowCmd())
	return cmd
}

func newMoviesPopularCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "popular",
		Short: "List popular movies",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			result, err := c.GetPopularMovies(ctx, page)
			if err != nil {
				log.Error().Err(err).Int("page", page).Msg("popular movies failed")
				return err
			}
			printMoviePage(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-based)")
	return cmd
}

func newMoviesSearchCmd() *cobra.Command {
	var page int
	var interactive bool

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search movies by keyword",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			if interactive {
				return runInteractiveSearch(cmd.Context(), c)
			}
			if len(args) == 0 {
				return fmt.Errorf("query argument required unless --interactive")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			result, err := c.SearchMovies(ctx, args[0], page)
			if err != nil {
				log.Error().Err(err).Str("query", args[0]).Msg("search failed")
				return err
			}
			printMoviePage(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-based)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Read queries from stdin, searching as you type")
	return cmd
}

// runInteractiveSearch reads lines from stdin and searches after the
// input settles, so a burst of refinements issues only the final query.
func runInteractiveSearch(ctx context.Context, c *cinequest.Client) error {
	fmt.Println("Type to search (min 3 chars); empty line quits.")

	d := debounce.New(debounce.DefaultDelay, debounce.DefaultMinLen, func(query string) {
		searchCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		result, err := c.SearchMovies(searchCtx, query, 1)
		if err != nil {
			log.Error().Err(err).Str("query", query).Msg("search failed")
			return
		}
		fmt.Printf("\n-- %q --\n", query)
		printMoviePage(result)
	})
	defer d.Stop()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			d.Flush()
			return nil
		}
		d.Update(line)
	}
	return scanner.Err()
}

func newMoviesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <movie-id>",
		Short: "Show movie details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			movieID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid movie id %q", args[0])
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			movie, err := c.GetMovieDetails(ctx, movieID)
			if err != nil {
				return err
			}

			fmt.Printf("%s (%s)\n", movie.Title, movie.ReleaseDate)
			fmt.Printf("Average vote: %.1f\n", movie.VoteAverage)
			if movie.Runtime != nil {
				fmt.Printf("Runtime: %d min\n", *movie.Runtime)
			}
			if len(movie.Genres) > 0 {
				names := make([]string, 0, len(movie.Genres))
				for _, g := range movie.Genres {
					names = append(names, g.Name)
				}
				fmt.Printf("Genres: %s\n", strings.Join(names, ", "))
			}
			if movie.Overview != "" {
				fmt.Printf("\n%s\n", movie.Overview)
			}

			if stats, err := c.GetMovieRatingStats(ctx, movieID); err == nil && stats.TotalRatings > 0 {
				fmt.Printf("\nCineQuest users: %.1f/10 from %d ratings\n", stats.AverageScore, stats.TotalRatings)
			}
			return nil
		},
	}
}

func printMoviePage(p *cinequest.MoviePage) {
	if len(p.Results) == 0 {
		fmt.Println("No movies found")
		return
	}
	for _, m := range p.Results {
		year := m.ReleaseDate
		if len(year) >= 4 {
			year = year[:4]
		}
		fmt.Printf("%8d  %-40s %s  %.1f\n", m.ID, truncate(m.Title, 40), year, m.VoteAverage)
	}
	fmt.Printf("Page %d of %d (%d movies)\n", p.Page, p.TotalPages, p.TotalResults)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
