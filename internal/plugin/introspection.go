package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mod-tools/loadorder/internal/domain"
)

// Introspection answers filesystem- and header-level questions about one
// plugin in the context of a GameProfile. All file-level operations go
// through ResolvedPath, which accounts for ghosting.
type Introspection struct {
	identity domain.PluginIdentity
	profile  domain.GameProfile
	parser   RecordParser
}

// New builds an Introspection for identity within profile, using parser to
// answer header-level questions. Pass DefaultRecordParser{} unless a host
// application has its own plugin-format library to inject.
func New(identity domain.PluginIdentity, profile domain.GameProfile, parser RecordParser) Introspection {
	return Introspection{identity: identity, profile: profile, parser: parser}
}

func (i Introspection) plainPath() string {
	return filepath.Join(i.profile.PluginsFolder(), i.identity.Name())
}

func (i Introspection) ghostPath() string {
	return filepath.Join(i.profile.PluginsFolder(), i.identity.GhostedName())
}

// Exists reports whether either the plain or the ghosted form of the
// plugin is present in the plugins folder.
func (i Introspection) Exists() bool {
	if _, err := os.Stat(i.plainPath()); err == nil {
		return true
	}
	_, err := os.Stat(i.ghostPath())
	return err == nil
}

// IsGhosted reports whether the plugin's on-disk name carries a .ghost
// suffix.
func (i Introspection) IsGhosted() bool {
	_, err := os.Stat(i.ghostPath())
	return err == nil
}

// ResolvedPath is the ghosted path if ghosted, else the plain path. All
// file-level operations below go through it.
func (i Introspection) ResolvedPath() string {
	if i.IsGhosted() {
		return i.ghostPath()
	}
	return i.plainPath()
}

// ModificationTime reads the resolved path's mtime.
func (i Introspection) ModificationTime() (time.Time, error) {
	info, err := os.Stat(i.ResolvedPath())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", domain.ErrTimestampReadFail, i.identity.Name(), err)
	}
	return info.ModTime(), nil
}

// SetModificationTime writes the resolved path's mtime.
func (i Introspection) SetModificationTime(t time.Time) error {
	path := i.ResolvedPath()
	if err := os.Chtimes(path, t, t); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrTimestampWriteFail, i.identity.Name(), err)
	}
	return nil
}

// UnGhost renames the file to drop the .ghost suffix, if ghosted.
func (i Introspection) UnGhost() error {
	if !i.IsGhosted() {
		return nil
	}
	if err := os.Rename(i.ghostPath(), i.plainPath()); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrFileRenameFail, i.identity.Name(), err)
	}
	return nil
}

// IsMasterFlagSet delegates to the record parser.
func (i Introspection) IsMasterFlagSet() bool {
	if !i.Exists() {
		return false
	}
	return i.parser.IsMasterFile(i.ResolvedPath())
}

// DeclaredMasters returns this plugin's declared masters as identities.
func (i Introspection) DeclaredMasters() []domain.PluginIdentity {
	if !i.Exists() {
		return nil
	}
	names, err := i.parser.DeclaredMasters(i.ResolvedPath())
	if err != nil {
		return nil
	}
	out := make([]domain.PluginIdentity, 0, len(names))
	for _, n := range names {
		out = append(out, domain.NewPluginIdentity(n))
	}
	return out
}

// IsFalseFlagged reports whether the master-flag bit and filename
// extension disagree: an .esm without the flag, or an .esp with it. This
// is diagnostic only; ordering is driven solely by the master flag.
func (i Introspection) IsFalseFlagged() bool {
	ext := strings.ToLower(filepath.Ext(i.identity.Name()))
	return (ext == ".esm" && !i.IsMasterFlagSet()) || (ext == ".esp" && i.IsMasterFlagSet())
}

// CanParse reports whether the plugin's header parses at all, used by
// IsValid to reject files that merely have the right extension.
func (i Introspection) CanParse() bool {
	if !i.Exists() {
		return false
	}
	return i.parser.CanParse(i.ResolvedPath())
}

// IsValid reports whether the identity both has a recognised extension and
// parses as a well-formed plugin header.
func (i Introspection) IsValid() bool {
	return i.identity.IsValid() && i.CanParse()
}
