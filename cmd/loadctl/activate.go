package main

import (
	"fmt"

	"github.com/mod-tools/loadorder/internal/domain"

	"github.com/spf13/cobra"
)

var activateCmd = &cobra.Command{
	Use:   "activate <plugin>",
	Short: "Add a plugin to the active set",
	Args:  cobra.ExactArgs(1),
	RunE:  runActivate,
}

var deactivateCmd = &cobra.Command{
	Use:   "deactivate <plugin>",
	Short: "Remove a plugin from the active set",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeactivate,
}

func init() {
	rootCmd.AddCommand(activateCmd)
	rootCmd.AddCommand(deactivateCmd)
}

func runActivate(cmd *cobra.Command, args []string) error {
	h, closer, err := buildHandle()
	if err != nil {
		return err
	}
	defer closer()

	if _, err := h.GetLoadOrder(); err != nil {
		return fmt.Errorf("getting load order: %w", err)
	}

	id := domain.NewPluginIdentity(args[0])
	if err := h.Activate(id); err != nil {
		return fmt.Errorf("activating %s: %w", id.Name(), err)
	}
	fmt.Printf("%s activated\n", colorGreen(id.Name()))
	return nil
}

func runDeactivate(cmd *cobra.Command, args []string) error {
	h, closer, err := buildHandle()
	if err != nil {
		return err
	}
	defer closer()

	if _, err := h.GetLoadOrder(); err != nil {
		return fmt.Errorf("getting load order: %w", err)
	}

	id := domain.NewPluginIdentity(args[0])
	if err := h.Deactivate(id); err != nil {
		return fmt.Errorf("deactivating %s: %w", id.Name(), err)
	}
	fmt.Printf("%s deactivated\n", colorYellow(id.Name()))
	return nil
}
