package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/previewdeck/internal/engine"
	"github.com/danieljhkim/previewdeck/internal/preview"
)

var failReason string

var undoCmd = &cobra.Command{
	Use:   "undo [batch-id]",
	Short: "Undo an applied batch",
	Long: `Undo an applied batch and offer it again as pending. Without an id the most
recently applied batch is undone.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			id, err := stackTop(args, s.manager.State().UndoStack, "undo")
			if err != nil {
				return err
			}
			res, err := s.manager.Undo(context.Background(), id)
			if err != nil {
				return err
			}

			if jsonOutput {
				return outputJSON(res)
			}
			PrintSuccess(fmt.Sprintf("Undid %s", res.Record.Summary))
			PrintInfo(fmt.Sprintf("It is pending again; redo with: previewdeck redo %s", res.Record.ID))
			return nil
		})
	},
}

var redoCmd = &cobra.Command{
	Use:   "redo [batch-id]",
	Short: "Re-apply an undone batch",
	Long:  `Re-apply an undone batch. Without an id the most recently undone batch is redone.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			id, err := stackTop(args, s.manager.State().RedoStack, "redo")
			if err != nil {
				return err
			}
			res, err := s.manager.Redo(context.Background(), id)
			if err != nil {
				return err
			}

			if jsonOutput {
				return outputJSON(res)
			}
			PrintSuccess(fmt.Sprintf("Redid %s", res.Batch.Summary))
			return nil
		})
	},
}

var failCmd = &cobra.Command{
	Use:   "fail <batch-id>",
	Short: "Report that the trip store could not commit an applied batch",
	Long: `Report that committing an applied batch failed. The batch leaves the undo
stack and is offered again as pending.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			err := s.manager.ReportApplyFailed(context.Background(), &engine.ApplyFailedRequest{
				BatchID: args[0],
				Reason:  failReason,
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return outputJSON(map[string]any{"batchId": args[0], "reason": failReason, "reoffered": true})
			}
			PrintWarning(fmt.Sprintf("Apply of %s failed; it is pending again", args[0]))
			return nil
		})
	},
}

func init() {
	failCmd.Flags().StringVarP(&failReason, "reason", "r", "trip store rejected the change", "Failure reason shown to the user")
}

// stackTop returns the explicit batch id, or the most recent entry of stack.
func stackTop(args []string, stack []preview.Batch, verb string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if len(stack) == 0 {
		return "", fmt.Errorf("%w: nothing to %s", engine.ErrNotFound, verb)
	}
	return stack[len(stack)-1].ID, nil
}
