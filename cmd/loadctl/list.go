package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the current load order",
	Long: `List every plugin in load order, marking which ones are active.

Examples:
  loadctl --game skyrim --data /games/skyrim list`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	h, closer, err := buildHandle()
	if err != nil {
		return err
	}
	defer closer()

	order, err := h.GetLoadOrder()
	if err != nil {
		return fmt.Errorf("getting load order: %w", err)
	}
	active, err := h.GetActivePlugins()
	if err != nil {
		return fmt.Errorf("getting active plugins: %w", err)
	}

	activeSet := make(map[string]bool, len(active))
	for _, id := range active {
		activeSet[id.Key()] = true
	}

	if len(order) == 0 {
		fmt.Println("No plugins found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POS\tPLUGIN\tACTIVE")
	fmt.Fprintln(w, "---\t------\t------")
	for i, id := range order {
		mark := colorRed("no")
		if activeSet[id.Key()] {
			mark = colorGreen("yes")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, id.Name(), mark)
	}
	w.Flush()

	return nil
}
