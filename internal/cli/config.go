package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/previewdeck/internal/config"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings and paths",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, settings, err := loadSettings()
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]any{"paths": paths, "settings": settings})
		}

		PrintSection("Paths")
		PrintLabelValue("Root", paths.Root)
		PrintLabelValue("Sessions", paths.Sessions)
		PrintLabelValue("Config", paths.Config)

		PrintSection("Settings")
		data, err := yaml.Marshal(settings)
		if err != nil {
			return fmt.Errorf("failed to marshal settings: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default settings file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := config.DefaultPaths()
		if err != nil {
			return fmt.Errorf("failed to get config paths: %w", err)
		}
		if err := paths.EnsureDirectories(); err != nil {
			return err
		}
		if _, err := os.Stat(paths.Config); err == nil && !configInitForce {
			return fmt.Errorf("%s already exists, use --force to overwrite", paths.Config)
		}
		if err := config.DefaultSettings().Save(paths.Config); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]string{"config": paths.Config})
		}
		PrintSuccess(fmt.Sprintf("Wrote %s", paths.Config))
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing settings file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
