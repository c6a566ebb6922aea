package activeplugins

import (
	"fmt"
	"os"

	"github.com/mod-tools/loadorder/internal/domain"
)

// IsValid checks the active set's own invariants: no more than 255
// entries, every entry exists on disk, every implicit plugin is active,
// and every active plugin's declared masters are also active.
func (ap *ActivePlugins) IsValid() error {
	if len(ap.names) > maxActivePlugins {
		return fmt.Errorf("%w: %d active plugins exceeds the %d-plugin limit", domain.ErrInvalidArgs, len(ap.names), maxActivePlugins)
	}

	for _, name := range ap.profile.ImplicitPlugins() {
		id := domain.NewPluginIdentity(name)
		if ap.introspect(id).Exists() && !ap.IsActive(id) {
			return fmt.Errorf("%w: implicit plugin %q must stay active", domain.ErrInvalidArgs, name)
		}
	}

	for _, id := range ap.names {
		intro := ap.introspect(id)
		if !intro.Exists() {
			return fmt.Errorf("%w: active plugin %q does not exist", domain.ErrInvalidArgs, id.Name())
		}
		for _, m := range intro.DeclaredMasters() {
			if !ap.IsActive(m) {
				return fmt.Errorf("%w: %q's master %q is not active", domain.ErrInvalidArgs, id.Name(), m.Name())
			}
		}
	}

	return nil
}

// HasChanged reports whether the on-disk file has advanced past the
// cached mtime watermark, or whether the set has never been loaded.
func (ap *ActivePlugins) HasChanged() (bool, error) {
	if !ap.loaded {
		return true, nil
	}
	info, err := os.Stat(ap.profile.ActivePluginsFile())
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %s: %v", domain.ErrTimestampReadFail, ap.profile.ActivePluginsFile(), err)
	}
	return info.ModTime().After(ap.mtime), nil
}
