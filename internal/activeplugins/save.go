package activeplugins

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mod-tools/loadorder/internal/domain"
	"github.com/mod-tools/loadorder/internal/transcode"
)

// Save persists order (normally the caller's current LoadOrder.Plugins())
// in whatever format the game expects: filtered down to whichever of its
// entries are in the active set, except for ASTERISK games, whose
// plugins.txt lists every entry and marks the active ones with '*'.
// Plugins whose names cannot transcode to Windows-1252 are skipped from
// the written file and the save still succeeds for everything it could
// write; Save drops the resulting BAD_FILENAME warning, which
// SaveWithWarning returns instead.
func (ap *ActivePlugins) Save(order []domain.PluginIdentity) error {
	_, err := ap.SaveWithWarning(order)
	return err
}

// SaveWithWarning is Save, but also surfaces the BAD_FILENAME warning (if
// any) for callers that want to report it instead of silently dropping it.
func (ap *ActivePlugins) SaveWithWarning(order []domain.PluginIdentity) (*domain.Warning, error) {
	if ap.profile.IsMorrowind() {
		return ap.saveMorrowindINI(order)
	}
	return ap.savePlainList(order)
}

func (ap *ActivePlugins) saveMorrowindINI(order []domain.PluginIdentity) (*domain.Warning, error) {
	var sb strings.Builder
	sb.WriteString(ap.iniPrefix)

	n := 0
	var bad []string
	for _, id := range activeInOrder(ap, order) {
		if _, err := transcode.FromUTF8(id.Name()); err != nil {
			bad = append(bad, id.Name())
			continue
		}
		fmt.Fprintf(&sb, "GameFile%d=%s\n", n, id.Name())
		n++
	}
	sb.WriteString(ap.iniSuffix)

	encoded, err := transcode.FromUTF8(sb.String())
	if err != nil {
		// The splice itself contains something unrepresentable outside the
		// GameFileN= lines we control; nothing to do but fail the write.
		return nil, fmt.Errorf("%w: %v", domain.ErrFileWriteFail, err)
	}
	if err := ap.writeFile(ap.profile.ActivePluginsFile(), encoded); err != nil {
		return nil, err
	}
	ap.names = activeInOrder(ap, order)
	return domain.WarnBadFilename(bad), nil
}

func (ap *ActivePlugins) savePlainList(order []domain.PluginIdentity) (*domain.Warning, error) {
	var buf []byte
	var bad []string

	for _, id := range order {
		active := ap.IsActive(id)
		// ASTERISK's plugins.txt carries the whole load order, active or
		// not, with '*' marking the active ones; every other game's
		// plugins.txt lists active plugins only.
		if !active && ap.profile.Method() != domain.Asterisk {
			continue
		}
		line := id.Name()
		if ap.profile.Method() == domain.Asterisk && active {
			line = "*" + line
		}
		encoded, err := transcode.FromUTF8(line + "\n")
		if err != nil {
			bad = append(bad, id.Name())
			continue
		}
		buf = append(buf, encoded...)
	}

	if err := ap.writeFile(ap.profile.ActivePluginsFile(), buf); err != nil {
		return nil, err
	}
	return domain.WarnBadFilename(bad), nil
}

func (ap *ActivePlugins) writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrFileWriteFail, path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrFileWriteFail, path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrTimestampReadFail, path, err)
	}
	ap.mtime = info.ModTime()
	return nil
}

// activeInOrder filters order down to ap's current active set, preserving
// order's sequence; used by Morrowind's save where the written list must
// follow load order exactly.
func activeInOrder(ap *ActivePlugins, order []domain.PluginIdentity) []domain.PluginIdentity {
	out := make([]domain.PluginIdentity, 0, len(order))
	for _, id := range order {
		if ap.IsActive(id) {
			out = append(out, id)
		}
	}
	return out
}
