package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	selectToggle []string
	selectClear  bool
)

var selectCmd = &cobra.Command{
	Use:   "select [batch-id]",
	Short: "Focus a batch or toggle its actions for partial apply",
	Long: `Focus a pending batch or alternative, or toggle actions in its partial-apply
selection with --toggle. Use --clear to drop the focus.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if selectClear {
			return withSession(func(s *session) error {
				if err := s.manager.SelectBatch(context.Background(), ""); err != nil {
					return err
				}
				if jsonOutput {
					return outputJSON(map[string]string{"selectedBatchId": ""})
				}
				PrintSuccess("Cleared the focused batch")
				return nil
			})
		}
		if len(args) == 0 {
			return fmt.Errorf("a batch id is required")
		}
		batchID := args[0]

		return withSession(func(s *session) error {
			h := s.manager.Handlers()

			if len(selectToggle) == 0 {
				if err := h.OnSelectBatch(batchID); err != nil {
					return err
				}
				if jsonOutput {
					return outputJSON(map[string]string{"selectedBatchId": batchID})
				}
				PrintSuccess(fmt.Sprintf("Focused %s", batchID))
				return nil
			}

			for _, actionID := range selectToggle {
				if err := h.OnSelectAction(batchID, actionID); err != nil {
					return err
				}
			}
			selection, err := s.manager.Selection(batchID)
			if err != nil {
				return err
			}
			if jsonOutput {
				return outputJSON(map[string]any{"batchId": batchID, "actionIds": selection})
			}
			PrintSuccess(fmt.Sprintf("Selected %s of %s", PrintCount(len(selection), "action", "actions"), batchID))
			PrintList(selection, 1)
			return nil
		})
	},
}

func init() {
	selectCmd.Flags().StringSliceVarP(&selectToggle, "toggle", "t", nil, "Toggle these action ids in the selection")
	selectCmd.Flags().BoolVar(&selectClear, "clear", false, "Clear the focused batch")
}
