package domain

import (
	"path/filepath"
	"strings"
)

// PluginIdentity is a value object naming one plugin by its canonical
// (de-ghosted) filename. Two identities are equal iff their names match
// under a Unicode-aware case-insensitive comparison; Key agrees with that
// equality so identities can be used as map keys.
type PluginIdentity struct {
	name string
}

// NewPluginIdentity builds an identity from a filename, stripping any
// trailing ".ghost" suffix (case-insensitive) to yield the canonical name.
func NewPluginIdentity(filename string) PluginIdentity {
	name := strings.TrimRight(filename, "\r")
	if strings.HasSuffix(toFoldKey(name), ".ghost") {
		name = name[:len(name)-len(".ghost")]
	}
	return PluginIdentity{name: name}
}

// Name returns the canonical, un-ghosted filename.
func (p PluginIdentity) Name() string {
	return p.name
}

// IsZero reports whether this identity was never assigned a name.
func (p PluginIdentity) IsZero() bool {
	return p.name == ""
}

// Equal reports whether two identities name the same plugin, ignoring case.
func (p PluginIdentity) Equal(other PluginIdentity) bool {
	return strings.EqualFold(p.name, other.name)
}

// Key returns a canonical lowercase form suitable for use as a map key.
// It agrees with Equal: p.Equal(q) iff p.Key() == q.Key().
func (p PluginIdentity) Key() string {
	return toFoldKey(p.name)
}

// IsValid reports whether the canonical name's extension is .esp or .esm.
func (p PluginIdentity) IsValid() bool {
	ext := toFoldKey(filepath.Ext(p.name))
	return ext == ".esp" || ext == ".esm"
}

// GhostedName returns the name with a ".ghost" suffix appended, as used for
// the on-disk deactivated form of a plugin.
func (p PluginIdentity) GhostedName() string {
	return p.name + ".ghost"
}

func (p PluginIdentity) String() string {
	return p.name
}

func toFoldKey(s string) string {
	return strings.ToLower(s)
}
