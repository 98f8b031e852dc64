package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/previewdeck/internal/fsops"
	"github.com/danieljhkim/previewdeck/internal/state"
)

var sessionRmForce bool

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage saved sessions",
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List saved sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := sessionStore()
		if err != nil {
			return err
		}
		names, err := store.List()
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(names)
		}

		PrintSection("Sessions")
		if len(names) == 0 {
			PrintEmptyState("No sessions found")
			return nil
		}
		rows := make([][]string, 0, len(names))
		for _, name := range names {
			st, err := store.Load(name)
			if err != nil {
				rows = append(rows, []string{name, "unreadable", "", ""})
				continue
			}
			c := st.Counts()
			rows = append(rows, []string{name, fmt.Sprint(c.Active), fmt.Sprint(c.Undo), fmt.Sprint(c.History)})
		}
		PrintTable([]string{"Name", "Pending", "Undo", "History"}, rows)
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := sessionStore()
		if err != nil {
			return err
		}
		name := args[0]

		if !sessionRmForce && !jsonOutput {
			if !promptConfirm(fmt.Sprintf("Delete session %q and all its batches?", name)) {
				return fmt.Errorf("deletion cancelled by user")
			}
		}
		if err := store.Delete(name); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]any{"session": name, "deleted": true})
		}
		PrintSuccess(fmt.Sprintf("Deleted session: %s", name))
		return nil
	},
}

func init() {
	sessionRmCmd.Flags().BoolVarP(&sessionRmForce, "force", "f", false, "Delete without confirmation")
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}

func sessionStore() (state.StateStore, error) {
	paths, _, err := loadSettings()
	if err != nil {
		return nil, err
	}
	return state.NewFileStateStore(fsops.NewRealFS(), paths.Sessions), nil
}

// promptConfirm prompts the user for a yes/no confirmation.
func promptConfirm(prompt string) bool {
	fmt.Printf("%s (y/N): ", prompt)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
