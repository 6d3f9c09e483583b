package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/minima/internal/board"
)

func newNotificationsCmd(g *globalFlags) *cobra.Command {
	var markAll bool
	var markID string

	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notifs"},
		Short:   "List or mark the current user's notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			open := g.open
			if markAll || markID != "" {
				open = g.openWriter
			}
			rt, err := open()
			if err != nil {
				return err
			}
			defer rt.Close()

			out := cmd.OutOrStdout()
			switch {
			case markAll:
				if err := rt.session.MarkAllRead(); err != nil {
					return err
				}
				fmt.Fprintln(out, "All notifications marked read.")
				return nil
			case markID != "":
				if err := rt.session.MarkRead(markID); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s marked read.\n", markID)
				return nil
			}

			notifs := rt.session.Notifications()
			if len(notifs) == 0 {
				fmt.Fprintln(out, "No notifications.")
				return nil
			}
			fmt.Fprintf(out, "%d unread\n\n", board.UnreadCount(notifs))
			for _, n := range notifs {
				marker := " "
				if !n.IsRead {
					marker = "●"
				}
				fmt.Fprintf(out, "%s %-10s %s  %s\n", marker, n.ID, n.CreatedAt.Format("Jan 02 15:04"), n.Message)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&markAll, "mark-all", false, "mark every notification read")
	cmd.Flags().StringVar(&markID, "read", "", "mark one notification read by id")
	return cmd
}
