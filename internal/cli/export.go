package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sadopc/minima/internal/board"
	"github.com/sadopc/minima/internal/export"
)

func newExportCmd(g *globalFlags) *cobra.Command {
	var format, out string
	var mine bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks as CSV or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "json" {
				return fmt.Errorf("invalid format %q: must be csv or json", format)
			}
			rt, err := g.open()
			if err != nil {
				return err
			}
			defer rt.Close()

			snap := rt.session.Snapshot()
			d := export.Data{Tasks: snap.Tasks, Projects: snap.Projects, Users: snap.Users}
			if mine {
				d.Tasks = board.FilterTasks(snap.Tasks, board.Filter{AssigneeID: rt.session.UserID()})
			}

			if out == "" || out == "-" {
				return writeExport(cmd.OutOrStdout(), format, d)
			}
			if format == "csv" {
				err = export.ToCSV(d, out)
			} else {
				err = export.ToJSON(d, out)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d tasks to %s\n", len(d.Tasks), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&mine, "mine", false, "only tasks assigned to the current user")
	return cmd
}

func writeExport(w io.Writer, format string, d export.Data) error {
	if format == "csv" {
		return export.WriteCSV(w, d)
	}
	return export.WriteJSON(w, d)
}
