package domain

import "path/filepath"

// GameProfile is the immutable per-game configuration needed to locate and
// interpret a game's load-order and active-plugin state on disk.
//
// Construct one with NewGameProfile; it has no behavior beyond accessors
// and is safe to share across goroutines (though a GameHandle built from it
// is not, per the concurrency model).
type GameProfile struct {
	id                GameID
	method            OrderingMethod
	masterFile        string
	pluginsFolder     string
	loadOrderFile     string
	activePluginsFile string
	implicitPlugins   []string
}

// GameProfileOptions lets a caller override the stock paths and implicit
// plugin list a GameID would otherwise default to. Zero-value fields mean
// "use the default for this GameID".
type GameProfileOptions struct {
	PluginsFolder     string
	LoadOrderFile     string
	ActivePluginsFile string
	ImplicitPlugins   []string
}

// NewGameProfile builds the profile for a known game, rooted at dataPath
// (the game's data/plugins directory's parent, mirroring where the teacher
// tool expects a game's install path) and localPath (where loadorder.txt /
// plugins.txt live; pass "" to colocate them with dataPath, as Morrowind
// and Oblivion-with-MyGamesDirectory-disabled do).
func NewGameProfile(id GameID, dataPath, localPath string, opts GameProfileOptions) GameProfile {
	method := OrderingMethodFor(id)
	p := GameProfile{
		id:     id,
		method: method,
	}

	switch id {
	case Morrowind:
		p.masterFile = "Morrowind.esm"
		p.pluginsFolder = joinPath(dataPath, "Data Files")
		p.activePluginsFile = joinPath(dataPath, "Morrowind.ini")
	case Oblivion:
		p.masterFile = "Oblivion.esm"
		p.pluginsFolder = joinPath(dataPath, "Data")
		p.activePluginsFile = joinPath(pick(localPath, dataPath), "plugins.txt")
	case Skyrim:
		p.masterFile = "Skyrim.esm"
		p.pluginsFolder = joinPath(dataPath, "Data")
		p.activePluginsFile = joinPath(pick(localPath, dataPath), "plugins.txt")
		p.loadOrderFile = joinPath(pick(localPath, dataPath), "loadorder.txt")
		p.implicitPlugins = []string{"Skyrim.esm", "Update.esm"}
	case Fallout3:
		p.masterFile = "Fallout3.esm"
		p.pluginsFolder = joinPath(dataPath, "Data")
		p.activePluginsFile = joinPath(pick(localPath, dataPath), "plugins.txt")
	case FalloutNV:
		p.masterFile = "FalloutNV.esm"
		p.pluginsFolder = joinPath(dataPath, "Data")
		p.activePluginsFile = joinPath(pick(localPath, dataPath), "plugins.txt")
	case Fallout4:
		p.masterFile = "Fallout4.esm"
		p.pluginsFolder = joinPath(dataPath, "Data")
		p.activePluginsFile = joinPath(pick(localPath, dataPath), "plugins.txt")
		p.implicitPlugins = []string{"Fallout4.esm", "DLCRobot.esm", "DLCworkshop01.esm", "DLCCoast.esm"}
	}

	if opts.PluginsFolder != "" {
		p.pluginsFolder = opts.PluginsFolder
	}
	if opts.LoadOrderFile != "" {
		p.loadOrderFile = opts.LoadOrderFile
	}
	if opts.ActivePluginsFile != "" {
		p.activePluginsFile = opts.ActivePluginsFile
	}
	if len(opts.ImplicitPlugins) > 0 {
		p.implicitPlugins = opts.ImplicitPlugins
	}

	return p
}

func pick(preferred, fallback string) string {
	if preferred != "" {
		return preferred
	}
	return fallback
}

func joinPath(parts ...string) string {
	return filepath.Join(parts...)
}

func (p GameProfile) ID() GameID                { return p.id }
func (p GameProfile) Method() OrderingMethod    { return p.method }
func (p GameProfile) MasterFile() string        { return p.masterFile }
func (p GameProfile) PluginsFolder() string     { return p.pluginsFolder }
func (p GameProfile) LoadOrderFile() string     { return p.loadOrderFile }
func (p GameProfile) ActivePluginsFile() string { return p.activePluginsFile }
func (p GameProfile) IsMorrowind() bool         { return p.id == Morrowind }

// ImplicitPlugins returns the plugins this game always loads regardless of
// the active set, e.g. Skyrim's Skyrim.esm and Update.esm.
func (p GameProfile) ImplicitPlugins() []string {
	return append([]string(nil), p.implicitPlugins...)
}

// IsImplicit reports whether name is one of this game's always-loaded
// plugins, compared case-insensitively.
func (p GameProfile) IsImplicit(name string) bool {
	target := NewPluginIdentity(name)
	for _, n := range p.implicitPlugins {
		if NewPluginIdentity(n).Equal(target) {
			return true
		}
	}
	return false
}
