// Package activeplugins implements the ActivePlugins component: the subset
// of a game's plugins that are actually loaded, persisted in whichever
// format the game's OrderingMethod calls for (Morrowind.ini, plugins.txt,
// or Fallout 4's combined asterisk-marked plugins.txt).
package activeplugins

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/mod-tools/loadorder/internal/domain"
	"github.com/mod-tools/loadorder/internal/plugin"
	"github.com/mod-tools/loadorder/internal/transcode"
)

// maxActivePlugins is the engine-imposed ceiling shared by every game in
// scope: the esp/esm load slot is a single byte index.
const maxActivePlugins = 255

var morrowindGameFile = regexp.MustCompile(`(?i)^GameFile[0-9]{1,3}=(.+)$`)

// ActivePlugins is the active subset of a game's plugins, kept in whatever
// order its own persistence format preserves (Morrowind and ASTERISK
// preserve load order; TIMESTAMP's plugins.txt order is otherwise unused).
type ActivePlugins struct {
	profile domain.GameProfile
	parser  plugin.RecordParser

	names []domain.PluginIdentity
	mtime time.Time

	// iniPrefix and iniSuffix bracket Morrowind's [Game Files] block: the
	// original file content before and after it, preserved verbatim so a
	// Save only rewrites the GameFileN= lines and nothing else the user
	// put in Morrowind.ini.
	iniPrefix string
	iniSuffix string
	loaded    bool
}

// New builds an empty ActivePlugins for profile. Call Load before using it.
func New(profile domain.GameProfile, parser plugin.RecordParser) *ActivePlugins {
	return &ActivePlugins{profile: profile, parser: parser}
}

// Plugins returns a read-only copy of the active set, in persisted order.
func (ap *ActivePlugins) Plugins() []domain.PluginIdentity {
	return append([]domain.PluginIdentity(nil), ap.names...)
}

// Len returns the number of active plugins.
func (ap *ActivePlugins) Len() int {
	return len(ap.names)
}

// IsActive reports whether id is in the active set, case-insensitively.
func (ap *ActivePlugins) IsActive(id domain.PluginIdentity) bool {
	for _, n := range ap.names {
		if n.Equal(id) {
			return true
		}
	}
	return false
}

func (ap *ActivePlugins) introspect(id domain.PluginIdentity) plugin.Introspection {
	return plugin.New(id, ap.profile, ap.parser)
}

// Load reads the active set from disk per the game's format, then enforces
// the always-active implicit plugins and the 255-slot ceiling (excess
// trimmed from the tail, per the original's deactivate-on-overflow rule).
func (ap *ActivePlugins) Load() error {
	ap.names = nil
	ap.loaded = false

	path := ap.profile.ActivePluginsFile()
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			ap.ensureImplicit()
			ap.loaded = true
			return nil
		}
		return fmt.Errorf("%w: %s: %v", domain.ErrFileParseFail, path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrFileParseFail, path, err)
	}

	if ap.profile.IsMorrowind() {
		ap.loadMorrowindINI(string(data))
	} else {
		ap.loadPlainList(data)
	}

	ap.ensureImplicit()
	ap.trimToCeiling()
	ap.mtime = info.ModTime()
	ap.loaded = true
	return nil
}

// loadMorrowindINI splits an .ini into everything up to and including the
// "[Game Files]" header (iniPrefix), the GameFileN= lines themselves, and
// everything after the block (iniSuffix), so Save can splice a new block
// back in without disturbing the rest of the file.
func (ap *ActivePlugins) loadMorrowindINI(text string) {
	lines := splitLines(text)

	headerIdx := -1
	for i, line := range lines {
		if strings.EqualFold(strings.TrimSpace(line), "[Game Files]") {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		ap.iniPrefix = text
		ap.iniSuffix = ""
		return
	}

	ap.iniPrefix = strings.Join(lines[:headerIdx+1], "\n") + "\n"

	i := headerIdx + 1
	for ; i < len(lines); i++ {
		m := morrowindGameFile.FindStringSubmatch(lines[i])
		if m == nil {
			if strings.TrimSpace(lines[i]) == "" {
				continue
			}
			break
		}
		id := domain.NewPluginIdentity(strings.TrimSpace(m[1]))
		if id.IsValid() {
			ap.names = append(ap.names, id)
		}
	}
	ap.iniSuffix = strings.Join(lines[i:], "\n")
}

// loadPlainList reads one plugin name per line from a legacy-encoded
// plugins.txt, stripping Fallout 4's '*' active marker where present.
func (ap *ActivePlugins) loadPlainList(data []byte) {
	text := transcode.ToUTF8(data)
	for _, line := range splitLines(text) {
		active := true
		if ap.profile.Method() == domain.Asterisk {
			active = strings.HasPrefix(line, "*")
			line = strings.TrimPrefix(line, "*")
		}
		if line == "" || strings.HasPrefix(line, "#") || !active {
			continue
		}
		id := domain.NewPluginIdentity(line)
		if !id.IsValid() || ap.IsActive(id) {
			continue
		}
		ap.names = append(ap.names, id)
	}
}

// ensureImplicit appends any configured implicit plugin present on disk
// but missing from the active set: Skyrim.esm/Update.esm, Fallout4.esm and
// its DLC masters, and so on.
func (ap *ActivePlugins) ensureImplicit() {
	for _, name := range ap.profile.ImplicitPlugins() {
		id := domain.NewPluginIdentity(name)
		if ap.IsActive(id) {
			continue
		}
		if !ap.introspect(id).Exists() {
			continue
		}
		ap.names = append(ap.names, id)
	}
}

// trimToCeiling drops entries past maxActivePlugins from the tail, keeping
// implicit plugins even if that means trimming something else instead.
func (ap *ActivePlugins) trimToCeiling() {
	if len(ap.names) <= maxActivePlugins {
		return
	}

	budget := maxActivePlugins
	for _, id := range ap.names {
		if ap.profile.IsImplicit(id.Name()) {
			budget--
		}
	}

	kept := make([]domain.PluginIdentity, 0, maxActivePlugins)
	for _, id := range ap.names {
		if ap.profile.IsImplicit(id.Name()) {
			kept = append(kept, id)
		} else if budget > 0 {
			kept = append(kept, id)
			budget--
		}
	}
	ap.names = kept
}

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
