package main

import (
	"fmt"

	"github.com/mod-tools/loadorder/internal/activeplugins"
	"github.com/mod-tools/loadorder/internal/domain"
	"github.com/mod-tools/loadorder/internal/loadorder"
	"github.com/mod-tools/loadorder/internal/plugin"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show load-order/active-plugin health",
	Long: `Report whether the load order and active set are internally valid, and
for TEXTFILE games whether loadorder.txt and plugins.txt agree with each
other.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	h, closer, err := buildHandle()
	if err != nil {
		return err
	}
	defer closer()

	profile := h.Profile()

	order, err := h.GetLoadOrder()
	if err != nil {
		return fmt.Errorf("getting load order: %w", err)
	}
	active, err := h.GetActivePlugins()
	if err != nil {
		return fmt.Errorf("getting active plugins: %w", err)
	}

	fmt.Printf("Game: %s (%s ordering)\n", profile.ID(), profile.Method())
	fmt.Printf("Plugins: %d total, %d active\n", len(order), len(active))

	parser := plugin.DefaultRecordParser{}
	if len(order) > 0 {
		intro := plugin.New(order[0], profile, parser)
		if t, err := intro.ModificationTime(); err == nil {
			fmt.Printf("First plugin (%s) last touched %s\n", order[0].Name(), humanize.Time(t))
		}
	}

	printValidity("load order", loadOrderValid(profile, parser))
	printValidity("active plugins", activePluginsValid(profile, parser))

	if profile.Method() == domain.Textfile {
		synced, err := loadorder.IsSynchronised(profile, parser)
		if err != nil {
			return fmt.Errorf("checking synchronisation: %w", err)
		}
		if synced {
			fmt.Println(colorGreen("loadorder.txt and plugins.txt agree"))
		} else {
			fmt.Println(colorYellow("loadorder.txt and plugins.txt disagree; one was edited externally"))
		}
	}

	return nil
}

func printValidity(label string, err error) {
	if err == nil {
		fmt.Printf("%s: %s\n", label, colorGreen("valid"))
		return
	}
	fmt.Printf("%s: %s (%v)\n", label, colorRed("invalid"), err)
}

func loadOrderValid(profile domain.GameProfile, parser plugin.RecordParser) error {
	lo := loadorder.New(profile, parser)
	if err := lo.Load(); err != nil {
		return err
	}
	return lo.IsValid()
}

func activePluginsValid(profile domain.GameProfile, parser plugin.RecordParser) error {
	ap := activeplugins.New(profile, parser)
	if err := ap.Load(); err != nil {
		return err
	}
	return ap.IsValid()
}
