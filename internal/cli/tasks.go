package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/sadopc/minima/internal/board"
	"github.com/sadopc/minima/internal/forms"
	"github.com/sadopc/minima/internal/model"
	"github.com/sadopc/minima/internal/workspace"
)

func newTasksCmd(g *globalFlags) *cobra.Command {
	var f board.Filter
	var mine bool

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFilter(f); err != nil {
				return err
			}
			rt, err := g.open()
			if err != nil {
				return err
			}
			defer rt.Close()

			if mine {
				f.AssigneeID = rt.session.UserID()
			}
			tasks := rt.session.Tasks(f)
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks match.")
				return nil
			}
			printTaskTable(cmd.OutOrStdout(), tasks, rt.session.Snapshot())
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Search, "search", "", "case-insensitive text in name or description")
	cmd.Flags().StringVar(&f.Status, "status", board.All, "todo, inprogress, done, paused or all")
	cmd.Flags().StringVar(&f.Priority, "priority", board.All, "low, medium, high or all")
	cmd.Flags().StringVar(&f.ProjectID, "project", "", "only tasks of this project id")
	cmd.Flags().BoolVar(&mine, "mine", false, "only tasks assigned to the current user")
	return cmd
}

func checkFilter(f board.Filter) error {
	if f.Status != board.All && f.Status != "" {
		if _, err := model.ParseStatus(f.Status); err != nil {
			return err
		}
	}
	if f.Priority != board.All && f.Priority != "" {
		if _, err := model.ParsePriority(f.Priority); err != nil {
			return err
		}
	}
	return nil
}

func printTaskTable(w io.Writer, tasks []model.Task, snap workspace.Snapshot) {
	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format(forms.DateLayout)
		}
		rows[i] = []string{
			t.ID,
			t.Name,
			board.ProjectName(t.ProjectID, snap.Projects),
			t.Status.Label(),
			t.Priority.Label(),
			due,
			strings.Join(board.AssigneeNames(t.AssigneeIDs, snap.Users), ", "),
		}
	}
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Name", "Project", "Status", "Priority", "Due", "Assignees").
		Rows(rows...)
	fmt.Fprintln(w, tbl.Render())
}

func newMoveCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "move <task-id> <status>",
		Short: "Change the status of a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := model.ParseStatus(args[1])
			if err != nil {
				return err
			}
			rt, err := g.openWriter()
			if err != nil {
				return err
			}
			defer rt.Close()

			t, err := rt.session.ChangeStatus(args[0], status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %q is now %s.\n", t.ID, t.Name, t.Status.Label())
			return nil
		},
	}
}

func newDashboardCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the current user's task counts and upcoming tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := g.open()
			if err != nil {
				return err
			}
			defer rt.Close()

			out := cmd.OutOrStdout()
			c := rt.session.Dashboard("")
			fmt.Fprintf(out, "Upcoming:      %d\n", c.Upcoming)
			fmt.Fprintf(out, "Completed:     %d\n", c.Completed)
			fmt.Fprintf(out, "Overdue:       %d\n", c.Overdue)
			fmt.Fprintf(out, "Total active:  %d\n", c.TotalActive)

			upcoming := rt.session.Upcoming()
			if len(upcoming) == 0 {
				return nil
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next up:")
			projects := rt.session.Snapshot().Projects
			for _, t := range upcoming {
				fmt.Fprintf(out, "  %s  %-32s %s\n",
					t.DueDate.Format(forms.DateLayout), t.Name, board.ProjectName(t.ProjectID, projects))
			}
			return nil
		},
	}
}

func newBoardCmd(g *globalFlags) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show a project's tasks as kanban columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := g.open()
			if err != nil {
				return err
			}
			defer rt.Close()

			p, ok := rt.session.Project(projectID)
			if !ok {
				return fmt.Errorf("project %q: %w", projectID, workspace.ErrProjectNotFound)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, p.Name)
			buckets := rt.session.Board(projectID, board.Filter{})
			for i, st := range model.Statuses {
				fmt.Fprintf(out, "\n%s (%d)\n", st.Label(), len(buckets[i]))
				for _, t := range buckets[i] {
					fmt.Fprintf(out, "  %-10s %s [%s]\n", t.ID, t.Name, t.Priority.Label())
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "project id")
	cmd.MarkFlagRequired("project")
	return cmd
}

// open loads the config and opens a runtime without the instance lock.
// Only read-only commands use it.
func (g *globalFlags) open() (*runtime, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	return openRuntime(cfg, false)
}

// openWriter opens a runtime holding the instance lock, for commands that
// write.
func (g *globalFlags) openWriter() (*runtime, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	return openRuntime(cfg, true)
}
