package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/clubdeck/internal/cli/formatter"
	"github.com/alexanderramin/clubdeck/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Work with the task board",
	}
	cmd.AddCommand(
		newTaskListCmd(app),
		newTaskAllCmd(app),
		newTaskShowCmd(app),
		newTaskBoardCmd(app),
		newTaskCreateCmd(app),
		newTaskMoveCmd(app),
		newTaskAssignCmd(app),
	)
	return cmd
}

func parseTaskID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("task id %q: %w", s, domain.ErrInvalidInput)
	}
	return id, nil
}

func newTaskListCmd(app *App) *cobra.Command {
	var team string
	var status domain.TaskStatus
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List a team's tasks (default: your team)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			var (
				tasks []domain.Task
				err   error
			)
			if status != "" {
				tasks, err = app.Tasks.ListByStatus(ctx, app.Session, team, status)
			} else {
				tasks, err = app.Tasks.ListByTeam(ctx, app.Session, team)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskList(tasks))
			return nil
		},
	}
	cmd.Flags().StringVarP(&team, "team", "t", "", "Team name")
	cmd.Flags().VarP(newStatusValue(&status), "status", "s", statusNames())
	return cmd
}

func newTaskAllCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Show every task you can see, grouped by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := app.Tasks.Projects(cmdContext(cmd), app.Session)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBoard(view))
			return nil
		},
	}
}

func newTaskShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			task, err := app.Tasks.Get(cmdContext(cmd), app.Session, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTask(task))
			return nil
		},
	}
}

func newTaskBoardCmd(app *App) *cobra.Command {
	var team string
	var interactive bool
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show a team's kanban board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			view, err := app.Tasks.Board(ctx, app.Session, team)
			if err != nil {
				return err
			}
			if interactive {
				_, err := app.runProgram(newBoardModel(ctx, app, view))
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBoard(view))
			return nil
		},
	}
	cmd.Flags().StringVarP(&team, "team", "t", "", "Team name")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Move cards with the keyboard")
	return cmd
}

func newTaskCreateCmd(app *App) *cobra.Command {
	var in domain.TaskInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task (Admin, or Team Lead for own team)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := app.Tasks.Create(cmdContext(cmd), app.Session, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task #%d %s on %s\n", task.ID, formatter.Bold(task.Title), task.Team)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "Task title")
	cmd.Flags().StringVar(&in.Description, "desc", "", "Description")
	cmd.Flags().StringVarP(&in.Team, "team", "t", "", "Team (default: your team)")
	cmd.Flags().StringVar(&in.Assignee, "assign", "", "Assignee username")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTaskMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move ID STATUS",
		Short: "Move a task to " + statusNames(),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			status, err := domain.ParseTaskStatus(args[1])
			if err != nil {
				return err
			}
			if err := app.Tasks.SetStatus(cmdContext(cmd), app.Session, id, status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task #%d → %s\n", id, formatter.StatusPill(status))
			return nil
		},
	}
}

func newTaskAssignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assign ID [USER]",
		Short: "Assign a task, or unassign when USER is omitted",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			user := ""
			if len(args) == 2 {
				user = args[1]
			}
			if err := app.Tasks.SetAssignee(cmdContext(cmd), app.Session, id, user); err != nil {
				return err
			}
			if user == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Task #%d unassigned\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Task #%d assigned to %s\n", id, user)
			}
			return nil
		},
	}
}
