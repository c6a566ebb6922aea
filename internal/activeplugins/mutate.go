package activeplugins

import (
	"fmt"

	"github.com/mod-tools/loadorder/internal/domain"
)

// Activate adds id to the active set if it is not already present. It
// does not check the 255-plugin ceiling or master-dependency closure;
// call IsValid afterwards to enforce those.
func (ap *ActivePlugins) Activate(id domain.PluginIdentity) error {
	if ap.IsActive(id) {
		return nil
	}
	if !ap.introspect(id).Exists() {
		return fmt.Errorf("%w: %s", domain.ErrPluginNotFound, id.Name())
	}
	ap.names = append(ap.names, id)
	return nil
}

// Deactivate removes id from the active set. Deactivating an implicit
// plugin or a master something else still depends on leaves the set
// invalid; IsValid will report it, consistent with the rest of the
// package deferring validity checks to IsValid rather than refusing
// individual mutations.
func (ap *ActivePlugins) Deactivate(id domain.PluginIdentity) error {
	for i, n := range ap.names {
		if n.Equal(id) {
			ap.names = append(ap.names[:i], ap.names[i+1:]...)
			return nil
		}
	}
	return nil
}
