package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/previewdeck/internal/grace"
	"github.com/danieljhkim/previewdeck/internal/preview"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending, applied and undone batches",
	Long: `Display the session's pending batches, the undo stack with the time left
in each grace window, and the redo stack.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(sessionName)
		if err != nil {
			return err
		}
		defer s.close()

		st := s.manager.State()
		if jsonOutput {
			return outputJSON(st)
		}

		PrintSection("Pending")
		if len(st.ActiveBatches) == 0 {
			PrintEmptyState("No pending batches")
		} else {
			rows := make([][]string, 0, len(st.ActiveBatches))
			for _, b := range st.ActiveBatches {
				rows = append(rows, pendingRow(b, st.SelectedBatchID, ""))
				for _, alt := range b.Alternatives {
					rows = append(rows, pendingRow(alt, st.SelectedBatchID, "  or "))
				}
			}
			PrintTable([]string{"", "ID", "Summary", "Actions", "Conflicts", "Cost", "Duration"}, rows)
		}

		PrintSection("Undo")
		if len(st.UndoStack) == 0 {
			PrintEmptyState("Nothing to undo")
		} else {
			rows := make([][]string, 0, len(st.UndoStack))
			for i := len(st.UndoStack) - 1; i >= 0; i-- {
				b := st.UndoStack[i]
				window := "-"
				if s.manager.UndoOffered(b.ID) {
					window = fmt.Sprintf("%ds", grace.Seconds(s.manager.GraceRemaining(b.ID)))
				}
				rows = append(rows, []string{b.ID, b.Summary, PrintCount(len(b.AppliedActionIDs), "action", "actions"), window})
			}
			PrintTable([]string{"ID", "Summary", "Applied", "Undo window"}, rows)
		}

		PrintSection("Redo")
		if len(st.RedoStack) == 0 {
			PrintEmptyState("Nothing to redo")
		} else {
			rows := make([][]string, 0, len(st.RedoStack))
			for i := len(st.RedoStack) - 1; i >= 0; i-- {
				b := st.RedoStack[i]
				rows = append(rows, []string{b.ID, b.Summary})
			}
			PrintTable([]string{"ID", "Summary"}, rows)
		}
		return nil
	},
}

func pendingRow(b preview.Batch, focused, prefix string) []string {
	mark := ""
	if b.ID == focused {
		mark = "*"
	}
	conflicts := "-"
	if n := len(b.AllConflicts()); n > 0 {
		conflicts = fmt.Sprintf("%d (%s)", n, b.WorstSeverity())
	}
	return []string{
		mark,
		prefix + b.ID,
		b.Summary,
		fmt.Sprint(len(b.Actions)),
		conflicts,
		orDash(b.TotalCost),
		orDash(b.TotalDuration),
	}
}
