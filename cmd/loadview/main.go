// Command loadview is an interactive terminal viewer/editor for a game's
// load order: move plugins with shift+j/shift+k, toggle active with
// space, quit with q.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mod-tools/loadorder/internal/domain"
	"github.com/mod-tools/loadorder/internal/handle"
	"github.com/mod-tools/loadorder/internal/plugin"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	gameFlag := flag.String("game", "", "game id (morrowind, oblivion, skyrim, fallout3, falloutnv, fallout4)")
	dataFlag := flag.String("data", "", "path to the game's data directory's parent")
	localFlag := flag.String("local", "", "path where loadorder.txt/plugins.txt live")
	flag.Parse()

	if *gameFlag == "" || *dataFlag == "" {
		fmt.Fprintln(os.Stderr, "usage: loadview --game <id> --data <path> [--local <path>]")
		os.Exit(1)
	}

	id, ok := domain.ParseGameID(*gameFlag)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown game id %q\n", *gameFlag)
		os.Exit(1)
	}

	profile := domain.NewGameProfile(id, *dataFlag, *localFlag, domain.GameProfileOptions{})
	h := handle.New(profile, plugin.DefaultRecordParser{})

	model, err := newModel(h)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if _, err := tea.NewProgram(model).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
