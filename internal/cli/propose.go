package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/previewdeck/internal/factory"
	"github.com/danieljhkim/previewdeck/internal/preview"
)

var (
	proposeFile string

	// Item flags shared by restaurant and event
	itemName     string
	itemDetails  string
	itemTime     string
	itemDuration string
	itemLocation string
	itemCost     string
	itemNotes    string
	itemReason   string
	proposeDate  string
	proposeWhy   string

	rentalOptions []string
)

var proposeCmd = &cobra.Command{
	Use:   "propose",
	Short: "Propose a batch of trip changes",
	Long: `Propose a batch as an agent would, and add it to the session's pending batches.

With -f, the file holds a full proposal with a kind:

  kind: restaurant
  restaurant:
    restaurant: {name: Cervejaria Ramiro, details: Seafood, time: "19:30", cost: "$80"}

Otherwise use one of the subcommands.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if proposeFile == "" {
			return cmd.Help()
		}
		var p factory.Proposal
		if err := readYAML(proposeFile, &p); err != nil {
			return err
		}
		return propose(func(b *factory.Builder) (*preview.Batch, error) { return b.Build(p) })
	},
}

var proposeRestaurantCmd = &cobra.Command{
	Use:   "restaurant",
	Short: "Propose adding a restaurant",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := factory.RestaurantRequest{
			Restaurant:   itemFromFlags(),
			Reason:       itemReason,
			Explanation:  proposeWhy,
			AffectedDate: proposeDate,
		}
		if proposeFile != "" {
			if err := readYAML(proposeFile, &req); err != nil {
				return err
			}
		}
		return propose(func(b *factory.Builder) (*preview.Batch, error) { return b.RestaurantAdd(req) })
	},
}

var proposeEventCmd = &cobra.Command{
	Use:   "event",
	Short: "Propose adding an event",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := factory.EventRequest{
			Event:        itemFromFlags(),
			Reason:       itemReason,
			Explanation:  proposeWhy,
			AffectedDate: proposeDate,
		}
		if proposeFile != "" {
			if err := readYAML(proposeFile, &req); err != nil {
				return err
			}
		}
		return propose(func(b *factory.Builder) (*preview.Batch, error) { return b.EventAdd(req) })
	},
}

var proposeTripCmd = &cobra.Command{
	Use:   "trip",
	Short: "Propose a multi-step itinerary change from a file",
	Long: `Propose a multi-step itinerary change. The file holds the lines of the change:

  summary: Rework day 2
  lines:
    - type: remove
      item: {id: museum, name: Gulbenkian, details: Museum}
    - type: add
      item: {name: LX Factory, details: Market, duration: 2h}`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if proposeFile == "" {
			return fmt.Errorf("trip proposals are read from a file, use -f")
		}
		var req factory.TripModifyRequest
		if err := readYAML(proposeFile, &req); err != nil {
			return err
		}
		return propose(func(b *factory.Builder) (*preview.Batch, error) { return b.TripModify(req) })
	},
}

var proposeRentalCmd = &cobra.Command{
	Use:   "rental",
	Short: "Propose a comparison of rental options",
	Long: `Propose a comparison of rental options. Each --option is "name=cost":

  previewdeck propose rental --option "Fiat 500=$40" --option "VW Golf=$55"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := factory.RentalCompareRequest{
			Explanation:  proposeWhy,
			AffectedDate: proposeDate,
		}
		if proposeFile != "" {
			if err := readYAML(proposeFile, &req); err != nil {
				return err
			}
		}
		for _, opt := range rentalOptions {
			name, cost, _ := strings.Cut(opt, "=")
			req.Rentals = append(req.Rentals, preview.Item{
				Name:    strings.TrimSpace(name),
				Details: "Rental",
				Cost:    strings.TrimSpace(cost),
			})
		}
		return propose(func(b *factory.Builder) (*preview.Batch, error) { return b.RentalCompare(req) })
	},
}

var proposeOptionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Propose mutually exclusive options from a file",
	Long: `Propose mutually exclusive options. The file holds a list of options; the
first is shown as the primary batch and the rest as alternatives.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if proposeFile == "" {
			return fmt.Errorf("options proposals are read from a file, use -f")
		}
		var opts []factory.Option
		if err := readYAML(proposeFile, &opts); err != nil {
			return err
		}
		return propose(func(b *factory.Builder) (*preview.Batch, error) { return b.MultiOption(opts) })
	},
}

func init() {
	proposeCmd.PersistentFlags().StringVarP(&proposeFile, "file", "f", "", "Read the proposal from a YAML file")
	proposeCmd.PersistentFlags().StringVar(&proposeDate, "date", "", "Affected trip date")
	proposeCmd.PersistentFlags().StringVar(&proposeWhy, "explanation", "", "Why the agent proposes this")

	for _, c := range []*cobra.Command{proposeRestaurantCmd, proposeEventCmd} {
		c.Flags().StringVar(&itemName, "name", "", "Item name")
		c.Flags().StringVar(&itemDetails, "details", "", "Item details")
		c.Flags().StringVar(&itemTime, "time", "", "Start time")
		c.Flags().StringVar(&itemDuration, "duration", "", "Duration, e.g. 1h 30m")
		c.Flags().StringVar(&itemLocation, "location", "", "Location")
		c.Flags().StringVar(&itemCost, "cost", "", "Cost, e.g. $45")
		c.Flags().StringVar(&itemNotes, "notes", "", "Notes")
		c.Flags().StringVar(&itemReason, "reason", "", "Reason shown with the action")
	}
	proposeRentalCmd.Flags().StringArrayVar(&rentalOptions, "option", nil, "Rental option as name=cost (repeatable)")

	proposeCmd.AddCommand(proposeRestaurantCmd)
	proposeCmd.AddCommand(proposeEventCmd)
	proposeCmd.AddCommand(proposeTripCmd)
	proposeCmd.AddCommand(proposeRentalCmd)
	proposeCmd.AddCommand(proposeOptionsCmd)
}

func itemFromFlags() preview.Item {
	return preview.Item{
		Name:     itemName,
		Details:  itemDetails,
		Time:     itemTime,
		Duration: itemDuration,
		Location: itemLocation,
		Cost:     itemCost,
		Notes:    itemNotes,
	}
}

// readYAML decodes a YAML file into v.
func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// propose builds a batch and adds it to the current session.
func propose(build func(b *factory.Builder) (*preview.Batch, error)) error {
	return withSession(func(s *session) error {
		batch, err := build(s.builder)
		if err != nil {
			return err
		}
		if err := s.manager.AddBatch(context.Background(), batch); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(batch)
		}
		PrintSuccess(fmt.Sprintf("Proposed %s", batch.ID))
		PrintBatch(*batch, batch.ActionIDs())
		return nil
	})
}
