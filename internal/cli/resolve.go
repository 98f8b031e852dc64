package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/previewdeck/internal/engine"
	"github.com/danieljhkim/previewdeck/internal/preview"
	"github.com/danieljhkim/previewdeck/internal/resolver"
)

var (
	resolveStrategy string
	patchName       string
	patchDetails    string
	patchTime       string
	patchDuration   string
	patchLocation   string
	patchCost       string
	patchNotes      string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <conflict-id>",
	Short: "Resolve a conflict across every pending batch",
	Long: `Resolve a conflict with one of the strategies:

  skip        drop the actions carrying the conflict
  replace     rewrite the conflicting items with the given values
  reschedule  move the conflicting items to --time
  adjust      apply the given values, if any, and accept the rest
  force       keep everything as is (not allowed for blocking conflicts)

A batch left without actions is dismissed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var strategy resolver.Strategy
		if err := strategy.UnmarshalText([]byte(resolveStrategy)); err != nil {
			return err
		}

		res := resolver.Resolution{Strategy: strategy}
		if patch := patchFromFlags(cmd); !patch.IsEmpty() {
			res.Patch = patch
		}

		return withSession(func(s *session) error {
			out, err := s.manager.ResolveConflict(context.Background(), &engine.ResolveRequest{
				ConflictID: args[0],
				Resolution: res,
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return outputJSON(out)
			}
			PrintSuccess(fmt.Sprintf("Resolved %s with %s", out.Outcome.ConflictID, out.Outcome.Strategy))
			PrintLabelValue("Batches", fmt.Sprint(out.Outcome.BatchIDs))
			if len(out.Outcome.PatchedActionIDs) > 0 {
				PrintLabelValue("Rewritten actions", fmt.Sprint(out.Outcome.PatchedActionIDs))
			}
			if len(out.Outcome.DroppedActionIDs) > 0 {
				PrintLabelValue("Dropped actions", fmt.Sprint(out.Outcome.DroppedActionIDs))
			}
			if len(out.Dismissed) > 0 {
				PrintWarning(fmt.Sprintf("Dismissed empty batches: %v", out.Dismissed))
			}
			return nil
		})
	},
}

var autoResolveCmd = &cobra.Command{
	Use:   "auto-resolve <batch-id>",
	Short: "Resolve every auto-resolvable conflict of a batch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			res, err := s.manager.AutoResolve(context.Background(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				return outputJSON(res)
			}
			if len(res.Resolved) == 0 && len(res.Failed) == 0 {
				PrintInfo("No auto-resolvable conflicts")
				return nil
			}
			PrintSuccess(fmt.Sprintf("Auto-resolved %s", PrintCount(len(res.Resolved), "conflict", "conflicts")))
			for _, f := range res.Failed {
				PrintError(fmt.Sprintf("%s: %s", f.ConflictID, f.Message))
			}
			return nil
		})
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveStrategy, "strategy", string(resolver.StrategyAdjust), "skip, replace, reschedule, adjust or force")
	resolveCmd.Flags().StringVar(&patchName, "name", "", "New item name")
	resolveCmd.Flags().StringVar(&patchDetails, "details", "", "New item details")
	resolveCmd.Flags().StringVar(&patchTime, "time", "", "New start time")
	resolveCmd.Flags().StringVar(&patchDuration, "duration", "", "New duration")
	resolveCmd.Flags().StringVar(&patchLocation, "location", "", "New location")
	resolveCmd.Flags().StringVar(&patchCost, "cost", "", "New cost")
	resolveCmd.Flags().StringVar(&patchNotes, "notes", "", "New notes")
}

// patchFromFlags returns a patch holding only the flags set on cmd.
func patchFromFlags(cmd *cobra.Command) *preview.ItemPatch {
	patch := &preview.ItemPatch{}
	set := func(flag string, value string, field **string) {
		if cmd.Flags().Changed(flag) {
			v := value
			*field = &v
		}
	}
	set("name", patchName, &patch.Name)
	set("details", patchDetails, &patch.Details)
	set("time", patchTime, &patch.Time)
	set("duration", patchDuration, &patch.Duration)
	set("location", patchLocation, &patch.Location)
	set("cost", patchCost, &patch.Cost)
	set("notes", patchNotes, &patch.Notes)
	return patch
}
