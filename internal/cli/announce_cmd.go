package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/clubdeck/internal/cli/formatter"
	"github.com/alexanderramin/clubdeck/internal/domain"
	"github.com/spf13/cobra"
)

func newAnnounceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "announce",
		Aliases: []string{"news"},
		Short:   "Read and post announcements",
	}
	cmd.AddCommand(newAnnounceListCmd(app), newAnnounceShowCmd(app), newAnnouncePostCmd(app))
	return cmd
}

func newAnnounceListCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the newest announcements",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			feed, err := app.Announcements.ListRecent(cmdContext(cmd), app.Session, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAnnouncements(feed, app.now()))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "How many to show (0 for all)")
	return cmd
}

func newAnnounceShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one announcement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("announcement id %q: %w", args[0], domain.ErrInvalidInput)
			}
			a, err := app.Announcements.Get(cmdContext(cmd), app.Session, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAnnouncement(a, app.now()))
			return nil
		},
	}
}

func newAnnouncePostCmd(app *App) *cobra.Command {
	var title, body string
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post an announcement (Admin, Team Lead)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Announcements.Post(cmdContext(cmd), app.Session, title, body)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Posted announcement #%d %s\n", a.ID, formatter.Bold(a.Title))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Title")
	cmd.Flags().StringVar(&body, "body", "", "Body text")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}
