package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var dismissCmd = &cobra.Command{
	Use:   "dismiss <batch-id>",
	Short: "Dismiss a pending batch",
	Long: `Dismiss a pending batch. Dismissing the primary of an option group dismisses
the whole group; dismissing an alternative removes only that option.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			res, err := s.manager.Dismiss(context.Background(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				return outputJSON(res)
			}
			PrintSuccess(fmt.Sprintf("Dismissed %s", res.Batch.Summary))
			if len(res.Discarded) > 0 {
				PrintLabelValue("Alternatives dismissed", fmt.Sprint(res.Discarded))
			}
			return nil
		})
	},
}
