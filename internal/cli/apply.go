package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/previewdeck/internal/engine"
	"github.com/danieljhkim/previewdeck/internal/grace"
)

var applyActions []string

var applyCmd = &cobra.Command{
	Use:   "apply <batch-id>",
	Short: "Apply a pending batch or one of its alternatives",
	Long: `Apply a pending batch and notify the trip store.

Batches that allow partial apply commit only the selected actions: the ones
given with --action, else the ones toggled with 'select --toggle', else all.
Applying an alternative discards the rest of its group. Undo is offered for
the grace window that follows.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			res, err := s.manager.Apply(context.Background(), &engine.ApplyRequest{
				BatchID:   args[0],
				ActionIDs: applyActions,
			})
			if err != nil {
				if errors.Is(err, engine.ErrBlocked) && !jsonOutput {
					PrintWarning("Resolve the blocking conflicts first (previewdeck resolve <conflict-id>).")
				}
				return err
			}

			if jsonOutput {
				return outputJSON(res)
			}
			PrintSuccess(fmt.Sprintf("Applied %s (%s)", res.Batch.Summary, PrintCount(len(res.AppliedActionIDs), "action", "actions")))
			PrintLabelValue("Batch ID", res.Batch.ID)
			if len(res.Discarded) > 0 {
				PrintLabelValue("Discarded alternatives", fmt.Sprint(res.Discarded))
			}
			if res.RedoCleared > 0 {
				PrintLabelValue("Redo entries cleared", fmt.Sprint(res.RedoCleared))
			}
			if len(res.Evicted) > 0 {
				PrintLabelValue("No longer undoable", fmt.Sprint(res.Evicted))
			}
			PrintInfo(fmt.Sprintf("Undo available for %ds: previewdeck undo %s", grace.Seconds(res.GraceRemaining), res.Batch.ID))
			return nil
		})
	},
}

func init() {
	applyCmd.Flags().StringSliceVarP(&applyActions, "action", "a", nil, "Apply only these action ids (partial apply)")
}
