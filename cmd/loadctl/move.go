package main

import (
	"fmt"
	"strconv"

	"github.com/mod-tools/loadorder/internal/domain"

	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move <plugin> <position>",
	Short: "Move a plugin to a 1-based position in the load order",
	Args:  cobra.ExactArgs(2),
	RunE:  runMove,
}

func init() {
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	pos, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: position must be an integer", domain.ErrInvalidArgs)
	}

	h, closer, err := buildHandle()
	if err != nil {
		return err
	}
	defer closer()

	if _, err := h.GetLoadOrder(); err != nil {
		return fmt.Errorf("getting load order: %w", err)
	}

	id := domain.NewPluginIdentity(args[0])
	if err := h.SetPluginPosition(id, pos); err != nil {
		return fmt.Errorf("moving %s: %w", id.Name(), err)
	}
	fmt.Printf("%s moved to position %d\n", colorGreen(id.Name()), pos)
	return nil
}
