package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"examnova/internal/app"
	"examnova/internal/config"
)

func newRootCmd(cfg config.Config, logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "examnova",
		Short:         "Government exam listings, bookmarks and deadline reminders",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newScrapeCmd(cfg, logger),
		newServeCmd(cfg, logger),
		newJobsCmd(cfg, logger),
		newRemindersCmd(cfg, logger),
		newBookmarksCmd(cfg, logger),
	)

	return root
}

func newScrapeCmd(cfg config.Config, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Rebuild the local job corpus from the job board",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			count, err := a.BuildCorpus(cmd.Context())
			if err != nil {
				return err
			}

			printSuccess("captured %d postings into %s", count, cfg.Scraper.CorpusPath)
			return nil
		},
	}
}

func newServeCmd(cfg config.Config, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the reminder scheduler until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			printInfo("reminder scheduler running, interval %s", cfg.Scheduler.Interval())
			return a.RunScheduler(ctx)
		},
	}
}

func newJobsCmd(cfg config.Config, logger *slog.Logger) *cobra.Command {
	var category string
	var state string
	var limit int

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List published exams, newest deadline first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			exams, err := a.Exams(cmd.Context())
			if err != nil {
				return err
			}

			shown := 0
			for _, e := range exams {
				if category != "" && string(e.Category) != category {
					continue
				}
				if state != "" && e.State != state {
					continue
				}
				printExam(e)
				shown++
				if limit > 0 && shown >= limit {
					break
				}
			}

			if shown == 0 {
				printInfo("no exams match")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "filter by category (UPSC, SSC, Railway, ...)")
	cmd.Flags().StringVar(&state, "state", "", "filter by state")
	cmd.Flags().IntVar(&limit, "limit", 0, "cap the number of exams shown")
	return cmd
}

func newRemindersCmd(cfg config.Config, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Manage deadline reminders for the signed-in user",
	}
	cmd.AddCommand(
		newRemindersListCmd(cfg, logger),
		newRemindersSetCmd(cfg, logger),
		newRemindersDeleteCmd(cfg, logger),
	)
	return cmd
}

func newRemindersListCmd(cfg config.Config, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show reminders ordered by reminder date",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			userID, err := requireUser(a)
			if err != nil {
				return err
			}

			records, err := a.Reminders.ListAll(userID)
			if err != nil {
				return err
			}
			sort.Slice(records, func(i, j int) bool {
				return records[i].ReminderDate.Before(records[j].ReminderDate)
			})

			if len(records) == 0 {
				printInfo("no reminders set")
				return nil
			}
			for _, r := range records {
				printReminder(r)
			}
			return nil
		},
	}
}

func newRemindersSetCmd(cfg config.Config, logger *slog.Logger) *cobra.Command {
	var title string
	var date string
	var deadline string
	var before string
	var email string

	cmd := &cobra.Command{
		Use:   "set <exam-id>",
		Short: "Create or replace the reminder for an exam",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			a, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			userID, err := requireUser(a)
			if err != nil {
				return err
			}

			when, err := resolveReminderDate(date, deadline, before)
			if err != nil {
				return err
			}

			record, err := a.Reminders.Save(userID, args[0], title, when, deadline, email)
			if err != nil {
				return err
			}

			printSuccess("reminder %s set for %s", record.ID, record.ReminderDate.Format(time.RFC1123))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "exam title shown in the notification")
	cmd.Flags().StringVar(&date, "date", "", "explicit reminder time (2006-01-02 15:04 or RFC3339)")
	cmd.Flags().StringVar(&deadline, "deadline", "", "application deadline, stored and used for suggestions")
	cmd.Flags().StringVar(&before, "before", "", "suggested offset from --deadline: 1w, 3d or 1d")
	cmd.Flags().StringVar(&email, "email", "", "also deliver this reminder by email")
	return cmd
}

func newRemindersDeleteCmd(cfg config.Config, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <exam-id>",
		Short: "Remove the reminder for an exam",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			a, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			userID, err := requireUser(a)
			if err != nil {
				return err
			}

			removed, err := a.Reminders.Delete(userID, args[0])
			if err != nil {
				return err
			}
			if !removed {
				printInfo("no reminder for %s", args[0])
				return nil
			}

			printSuccess("reminder for %s removed", args[0])
			return nil
		},
	}
}

func newBookmarksCmd(cfg config.Config, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmarks",
		Short: "Manage bookmarked exams for the signed-in user",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show bookmarked exam ids",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			userID, err := requireUser(a)
			if err != nil {
				return err
			}

			ids, err := a.Bookmarks.List(userID)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				printInfo("no bookmarks")
				return nil
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <exam-id>",
		Short: "Bookmark an exam, or remove an existing bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			a, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			userID, err := requireUser(a)
			if err != nil {
				return err
			}

			bookmarked, err := a.Bookmarks.Toggle(userID, args[0])
			if err != nil {
				return err
			}
			if bookmarked {
				printSuccess("bookmarked %s", args[0])
			} else {
				printSuccess("removed bookmark for %s", args[0])
			}
			return nil
		},
	})

	return cmd
}

func requireUser(a *app.Application) (string, error) {
	userID, ok := a.Identity.CurrentUserID()
	if !ok {
		return "", fmt.Errorf("%w: set EXAMNOVA_USER", app.ErrNotAuthenticated)
	}
	return userID, nil
}
