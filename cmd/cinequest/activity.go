package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	cinequest "github.com/cinequest/cinequest-go"
)

func newCheckinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkin",
		Short: "Record today's check-in",
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

			done, err := c.HasCheckedInToday(ctx, userID)
			if err != nil {
				log.Warn().Err(err).Msg("could not read check-in status; attempting anyway")
			} else if done {
				fmt.Println("Already checked in today")
				return nil
			}

			rec, err := c.CheckIn(ctx, userID)
			if err != nil {
				log.Error().Err(err).Msg("check-in failed")
				return err
			}
			fmt.Printf("Checked in for %s (%d total)\n", rec.SignDate, rec.TotalSignCount)

			if hist, err := c.GetSignHistory(ctx, userID); err == nil && hist.ConsecutiveDays > 1 {
				fmt.Printf("%d day streak\n", hist.ConsecutiveDays)
			}

			announceNewBadges(ctx, c, userID)
			return nil
		},
	}
}

func newBadgesCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "badges",
		Short: "Show your achievement badges",
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

			statuses, err := c.BadgeStatuses(ctx, userID)
			if err != nil {
				return err
			}

			for _, s := range statuses {
				if !s.Unlocked && !all {
					continue
				}
				mark := "  "
				if s.Unlocked {
					mark = "★ "
				}
				line := fmt.Sprintf("%s%-16s %-8s %s", mark, s.BadgeName, s.BadgeLevel, s.Description)
				if s.Badge != nil && s.Badge.EarnedAt != nil {
					line += "  (earned " + s.Badge.EarnedAt.Format("2006-01-02") + ")"
				}
				fmt.Println(line)
			}
			if !all {
				fmt.Println(strings.Repeat("-", 40))
				fmt.Println("Use --all to include locked badges")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include badges not yet unlocked")
	return cmd
}

// announceNewBadges prints any badges unlocked since the last time we
// showed them, then marks them seen. Best effort; a failure here never
// fails the command that triggered it.
func announceNewBadges(ctx context.Context, c *cinequest.Client, userID string) {
	unseen, err := c.UnseenBadges(ctx, userID)
	if err != nil || len(unseen) == 0 {
		return
	}
	names := make([]string, 0, len(unseen))
	for _, b := range unseen {
		fmt.Printf("New badge unlocked: %s (%s)\n", b.BadgeName, b.BadgeLevel)
		names = append(names, b.BadgeName)
	}
	if err := c.MarkBadgesShown(userID, names...); err != nil {
		log.Debug().Err(err).Msg("could not record shown badges")
	}
}
