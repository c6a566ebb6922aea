package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mod-tools/loadorder/internal/domain"
	"github.com/mod-tools/loadorder/internal/handle"
	"github.com/mod-tools/loadorder/internal/plugin"
	"github.com/mod-tools/loadorder/internal/storage/audit"
	"github.com/mod-tools/loadorder/internal/storage/profileconfig"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"

	gameID    string
	dataPath  string
	localPath string
	configDir string
	auditPath string
	noColor   bool
	jsonOut   bool
)

var rootCmd = &cobra.Command{
	Use:           "loadctl",
	Short:         "Inspect and edit a game's load order and active-plugin set",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&gameID, "game", "g", "", "game id (morrowind, oblivion, skyrim, fallout3, falloutnv, fallout4)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "path to the game's data directory's parent")
	rootCmd.PersistentFlags().StringVar(&localPath, "local", "", "path where loadorder.txt/plugins.txt live (default: same as --data)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "profile config directory (default: ~/.config/loadctl)")
	rootCmd.PersistentFlags().StringVar(&auditPath, "audit-db", "", "path to a SQLite audit log (disabled if unset)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
}

// Execute runs the root command. Exit codes: 0 = success, 1 = error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if jsonOut {
			fmt.Printf(`{"error":%q}`+"\n", err.Error())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
)

func colorEnabled() bool {
	if noColor {
		return false
	}
	return os.Getenv("NO_COLOR") == ""
}

func colorGreen(s string) string {
	if !colorEnabled() {
		return s
	}
	return ansiGreen + s + ansiReset
}

func colorRed(s string) string {
	if !colorEnabled() {
		return s
	}
	return ansiRed + s + ansiReset
}

func colorYellow(s string) string {
	if !colorEnabled() {
		return s
	}
	return ansiYellow + s + ansiReset
}

func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}
	return filepath.Join(home, ".config", "loadctl"), nil
}

// buildProfile resolves the active GameProfile from flags, falling back to
// a saved profiles.yaml entry keyed by --game when --data is omitted.
func buildProfile() (domain.GameProfile, error) {
	if gameID == "" {
		return domain.GameProfile{}, errors.New("no game specified; use --game")
	}

	dir := configDir
	if dir == "" {
		d, err := defaultConfigDir()
		if err != nil {
			return domain.GameProfile{}, err
		}
		dir = d
	}

	if dataPath != "" {
		id, ok := domain.ParseGameID(gameID)
		if !ok {
			return domain.GameProfile{}, fmt.Errorf("%w: unknown game id %q", domain.ErrInvalidArgs, gameID)
		}
		return domain.NewGameProfile(id, dataPath, localPath, domain.GameProfileOptions{}), nil
	}

	doc, err := profileconfig.Load(dir)
	if err != nil {
		return domain.GameProfile{}, err
	}
	profile, ok := doc.Profile(gameID)
	if !ok {
		return domain.GameProfile{}, fmt.Errorf("%w: no saved profile for %q; pass --data", domain.ErrInvalidArgs, gameID)
	}
	return profile, nil
}

// buildHandle wires a GameHandle for the resolved profile, attaching an
// audit sink when --audit-db is set.
func buildHandle() (*handle.GameHandle, func(), error) {
	profile, err := buildProfile()
	if err != nil {
		return nil, func() {}, err
	}

	h := handle.New(profile, plugin.DefaultRecordParser{})
	closer := func() {}

	if auditPath != "" {
		j, err := audit.Open(auditPath)
		if err != nil {
			return nil, closer, err
		}
		h = h.WithAudit(j)
		closer = func() { j.Close() }
	}

	return h, closer, nil
}
