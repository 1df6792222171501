package commands

import (
	"fmt"
	"time"

	"github.com/benvon/morning-affirmations/internal/database"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newLocksCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locks",
		Short: "Manage locked selections",
		Long:  "List locked selections or clear them by session or age.",
	}
	cmd.AddCommand(newLocksListCmd())
	cmd.AddCommand(newLocksClearCmd())
	return cmd
}

func newLocksListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent locked selections",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			locks, err := database.NewLockedSelectionRepository(db).List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list locks: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(locks) == 0 {
				fmt.Fprintln(out, "No locked selections")
				return nil
			}
			for _, lock := range locks {
				fmt.Fprintf(out, "%s  %-11s  %s  affirmation=%s videos=%d\n",
					lock.SessionID, lock.Theme, lock.LockedAt.Format(time.RFC3339), lock.Affirmation.ID, len(lock.Videos))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of locks to list")
	return cmd
}

func newLocksClearCmd() *cobra.Command {
	var (
		session   string
		olderThan time.Duration
		all       bool
	)
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete locked selections",
		Long:  "Delete the lock of one session (--session), locks older than a duration (--older-than) or every lock (--all).",
		RunE: func(cmd *cobra.Command, args []string) error {
			chosen := 0
			for _, set := range []bool{session != "", olderThan > 0, all} {
				if set {
					chosen++
				}
			}
			if chosen != 1 {
				return fmt.Errorf("exactly one of --session, --older-than or --all is required")
			}

			var sessionID uuid.UUID
			if session != "" {
				parsed, err := uuid.Parse(session)
				if err != nil {
					return fmt.Errorf("invalid --session: %w", err)
				}
				sessionID = parsed
			}

			db, _, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()
			repo := database.NewLockedSelectionRepository(db)
			out := cmd.OutOrStdout()

			if sessionID != uuid.Nil {
				deleted, err := repo.DeleteBySessionID(cmd.Context(), sessionID)
				if err != nil {
					return fmt.Errorf("clear lock: %w", err)
				}
				if !deleted {
					fmt.Fprintf(out, "Session %s has no lock\n", sessionID)
					return nil
				}
				fmt.Fprintf(out, "Cleared lock for session %s\n", sessionID)
				return nil
			}

			cutoff := time.Now()
			if olderThan > 0 {
				cutoff = cutoff.Add(-olderThan)
			}
			n, err := repo.DeleteOlderThan(cmd.Context(), cutoff)
			if err != nil {
				return fmt.Errorf("clear locks: %w", err)
			}
			fmt.Fprintf(out, "Cleared %d lock(s)\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&session, "session", "", "session id whose lock to delete")
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "delete locks older than this (e.g. 168h)")
	cmd.Flags().BoolVar(&all, "all", false, "delete every lock")
	return cmd
}
