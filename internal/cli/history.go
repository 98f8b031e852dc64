package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/previewdeck/internal/state"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the session's batch lifecycle history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(sessionName)
		if err != nil {
			return err
		}
		defer s.close()

		entries := s.manager.State().History
		if historyLimit > 0 && len(entries) > historyLimit {
			entries = entries[len(entries)-historyLimit:]
		}

		if jsonOutput {
			return outputJSON(entries)
		}

		PrintSection("History")
		if len(entries) == 0 {
			PrintEmptyState("No history yet")
			return nil
		}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, historyRow(e))
		}
		PrintTable([]string{"Time", "Event", "Batch", "Summary", "Detail"}, rows)
		return nil
	},
}

func historyRow(e state.HistoryEntry) []string {
	return []string{
		e.At.Local().Format("15:04:05"),
		string(e.Event),
		e.BatchID,
		e.Batch.Summary,
		orDash(e.Detail),
	}
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Show only the last n entries")
}
