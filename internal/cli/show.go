package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/previewdeck/internal/engine"
	"github.com/danieljhkim/previewdeck/internal/grace"
	"github.com/danieljhkim/previewdeck/internal/preview"
	"github.com/danieljhkim/previewdeck/internal/state"
)

var showCmd = &cobra.Command{
	Use:   "show <batch-id>",
	Short: "Show a batch with its actions and conflicts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(sessionName)
		if err != nil {
			return err
		}
		defer s.close()

		st := s.manager.State()
		b, ok := findBatch(st, args[0])
		if !ok {
			return fmt.Errorf("%w: batch %s", engine.ErrNotFound, args[0])
		}

		var selected []string
		if b.Status == preview.StatusPending {
			selected, err = s.manager.Selection(b.ID)
			if err != nil {
				return err
			}
		} else {
			selected = b.AppliedActionIDs
		}

		if jsonOutput {
			return outputJSON(map[string]any{
				"batch":            b,
				"selectedActions":  selected,
				"undoOffered":      s.manager.UndoOffered(b.ID),
				"secondsRemaining": grace.Seconds(s.manager.GraceRemaining(b.ID)),
			})
		}

		PrintBatch(b, selected)
		if s.manager.UndoOffered(b.ID) {
			PrintSeparator()
			PrintBadge(fmt.Sprintf("undo %ds", grace.Seconds(s.manager.GraceRemaining(b.ID))), warningColor)
			fmt.Println()
		}
		return nil
	},
}

// findBatch looks a batch up among the pending batches and their
// alternatives, then the undo and redo stacks.
func findBatch(st *state.PreviewState, id string) (preview.Batch, bool) {
	if i := st.FindActive(id); i >= 0 {
		return st.ActiveBatches[i], true
	}
	if g, a, ok := st.FindAlternative(id); ok {
		return st.ActiveBatches[g].Alternatives[a], true
	}
	for _, stack := range [][]preview.Batch{st.UndoStack, st.RedoStack} {
		for _, b := range stack {
			if b.ID == id {
				return b, true
			}
		}
	}
	return preview.Batch{}, false
}
