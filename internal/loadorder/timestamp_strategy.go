package loadorder

import (
	"fmt"
	"os"
	"time"

	"github.com/mod-tools/loadorder/internal/domain"
)

// timestampStrategy implements OrderingMethod Timestamp: no separate order
// file exists, so order is derived purely from the plugins-folder scan and
// each plugin's modification time.
type timestampStrategy struct{}

func (timestampStrategy) seed(lo *LoadOrder) error {
	return nil
}

func (timestampStrategy) finalize(lo *LoadOrder, folderMtime time.Time) error {
	lo.sortByTimestamp()
	lo.mtime = folderMtime
	return nil
}

func (timestampStrategy) save(lo *LoadOrder, _ ActivePluginsCollaborator) error {
	// Want to make a minimum of changes to timestamps: walk the sequence
	// in order, and whenever a plugin's timestamp does not strictly
	// exceed its predecessor's, set it to 60 seconds after the
	// predecessor's. Unchanged
	// relative order means unchanged timestamps.
	var prev time.Time
	for i, id := range lo.plugins {
		intro := lo.introspect(id)
		t, err := intro.ModificationTime()
		if err != nil {
			return err
		}
		if i > 0 && !t.After(prev) {
			t = prev.Add(60 * time.Second)
			if err := intro.SetModificationTime(t); err != nil {
				return err
			}
		}
		prev = t
	}

	info, err := os.Stat(lo.profile.PluginsFolder())
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrTimestampReadFail, lo.profile.PluginsFolder(), err)
	}
	lo.mtime = info.ModTime()
	return nil
}

func (timestampStrategy) hasChanged(lo *LoadOrder) (bool, error) {
	info, err := os.Stat(lo.profile.PluginsFolder())
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", domain.ErrTimestampReadFail, lo.profile.PluginsFolder(), err)
	}
	return info.ModTime().After(lo.mtime), nil
}
