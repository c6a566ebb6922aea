package loadorder

import (
	"os"
	"strings"
	"time"

	"github.com/mod-tools/loadorder/internal/domain"
	"github.com/mod-tools/loadorder/internal/transcode"
)

// asteriskStrategy implements OrderingMethod Asterisk (Fallout 4): both
// order and active-ness live in one plugins.txt, with a leading '*'
// marking active lines. Per SPEC_FULL.md's supplemented-features note,
// only the marker-line ordering mechanism is implemented; esl-light
// plugin rules are out of scope.
type asteriskStrategy struct{}

func (asteriskStrategy) seed(lo *LoadOrder) error {
	path := lo.profile.ActivePluginsFile()
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	for _, line := range splitLines(transcode.ToUTF8(data)) {
		line = strings.TrimPrefix(line, "*")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id := domain.NewPluginIdentity(line)
		if !id.IsValid() || !lo.introspect(id).IsValid() {
			continue
		}
		if lo.Find(id) < len(lo.plugins) {
			continue
		}
		lo.insertPartitioned(id)
	}
	return nil
}

func (asteriskStrategy) finalize(lo *LoadOrder, folderMtime time.Time) error {
	if info, err := os.Stat(lo.profile.ActivePluginsFile()); err == nil {
		lo.mtime = info.ModTime()
		return nil
	}
	lo.mtime = folderMtime
	return nil
}

// save does not write anything itself: the single plugins.txt file is
// owned by ActivePlugins for this ordering method, since only it knows
// which entries carry the '*' marker. LoadOrder just hands over the order.
func (asteriskStrategy) save(lo *LoadOrder, ap ActivePluginsCollaborator) error {
	if ap == nil {
		return nil
	}
	if err := ap.Save(lo.plugins); err != nil {
		return err
	}
	if info, err := os.Stat(lo.profile.ActivePluginsFile()); err == nil {
		lo.mtime = info.ModTime()
	}
	return nil
}

func (asteriskStrategy) hasChanged(lo *LoadOrder) (bool, error) {
	if info, err := os.Stat(lo.profile.ActivePluginsFile()); err == nil && info.ModTime().After(lo.mtime) {
		return true, nil
	}
	if info, err := os.Stat(lo.profile.PluginsFolder()); err == nil && info.ModTime().After(lo.mtime) {
		return true, nil
	}
	return false, nil
}
