// Package loadorder implements the LoadOrder component: the ordered
// sequence of plugins a game will ingest, its load/save/validate/mutate
// operations, and external-change detection via a cached mtime watermark.
package loadorder

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/mod-tools/loadorder/internal/domain"
	"github.com/mod-tools/loadorder/internal/plugin"
)

// ActivePluginsCollaborator is the subset of ActivePlugins' behavior
// LoadOrder.Save needs for TEXTFILE and ASTERISK games, where saving the
// load order and saving the active set are two halves of one operation:
// "reload ActivePlugins if externally changed, then delegate Save to it."
type ActivePluginsCollaborator interface {
	HasChanged() (bool, error)
	Load() error
	Save(order []domain.PluginIdentity) error
}

// LoadOrder is the ordered sequence of plugins for one game, plus the
// cached mtime watermark used to detect external changes.
type LoadOrder struct {
	profile  domain.GameProfile
	parser   plugin.RecordParser
	strategy orderingStrategy

	plugins []domain.PluginIdentity
	mtime   time.Time
	loaded  bool
}

// New builds an empty LoadOrder for profile. Call Load before using it.
func New(profile domain.GameProfile, parser plugin.RecordParser) *LoadOrder {
	return &LoadOrder{
		profile:  profile,
		parser:   parser,
		strategy: newStrategy(profile.Method()),
	}
}

// Plugins returns a read-only copy of the current sequence.
func (lo *LoadOrder) Plugins() []domain.PluginIdentity {
	return append([]domain.PluginIdentity(nil), lo.plugins...)
}

// Len returns the number of plugins in the sequence.
func (lo *LoadOrder) Len() int {
	return len(lo.plugins)
}

func (lo *LoadOrder) introspect(id domain.PluginIdentity) plugin.Introspection {
	return plugin.New(id, lo.profile, lo.parser)
}

// Load rebuilds the in-memory sequence from disk, per §4.4: the
// textfile/fallback seed is read first (if applicable), then the
// Skyrim/Fallout4-style implicit plugins are forced into their fixed
// leading positions, then the plugins folder is scanned for anything not
// yet in the list, then (for TIMESTAMP games) the whole thing is
// stable-sorted by modification time with masters first.
func (lo *LoadOrder) Load() error {
	lo.plugins = nil
	lo.loaded = false

	if err := lo.strategy.seed(lo); err != nil {
		return err
	}

	lo.applyImplicitOrdering()

	folderMtime, err := lo.scanPluginsFolder()
	if err != nil {
		return err
	}

	if err := lo.strategy.finalize(lo, folderMtime); err != nil {
		return err
	}

	lo.loaded = true
	return nil
}

// applyImplicitOrdering enforces the Skyrim/Fallout4-style rule (TEXTFILE/
// ASTERISK only): every implicit plugin that exists on disk is forced,
// in GameProfile's declared order, into the sequence's leading positions
// (the game's master file first, then the rest), ahead of whatever the
// seed step produced. This runs before the plugins-folder scan so that a
// plugin the seed step already placed (e.g. from a plugins.txt fallback)
// doesn't anchor the master partition before the implicit plugins do.
func (lo *LoadOrder) applyImplicitOrdering() {
	if lo.profile.Method() == domain.Timestamp {
		return
	}

	pos := 0
	for _, name := range lo.profile.ImplicitPlugins() {
		id := domain.NewPluginIdentity(name)
		if !lo.introspect(id).Exists() {
			continue
		}
		lo.forceToPosition(id, pos)
		pos++
	}
}

// forceToPosition removes id from the sequence if present, then reinserts
// it at pos. Unlike Move, it performs no partition-violation check: it is
// used only to establish the implicit-plugin prefix that defines the
// master partition in the first place.
func (lo *LoadOrder) forceToPosition(id domain.PluginIdentity, pos int) {
	if idx := lo.Find(id); idx < len(lo.plugins) {
		lo.plugins = append(lo.plugins[:idx], lo.plugins[idx+1:]...)
	}
	if pos > len(lo.plugins) {
		pos = len(lo.plugins)
	}
	lo.plugins = append(lo.plugins, domain.PluginIdentity{})
	copy(lo.plugins[pos+1:], lo.plugins[pos:])
	lo.plugins[pos] = id
}

// scanPluginsFolder appends any valid plugin present on disk but absent
// from the in-memory sequence, inserting masters immediately after the
// last master and non-masters at the tail. Returns the folder's mtime.
func (lo *LoadOrder) scanPluginsFolder() (time.Time, error) {
	folder := lo.profile.PluginsFolder()

	entries, err := os.ReadDir(folder)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("%w: %s: %v", domain.ErrFileParseFail, folder, err)
	}

	seen := make(map[string]bool, len(lo.plugins))
	for _, p := range lo.plugins {
		seen[p.Key()] = true
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id := domain.NewPluginIdentity(entry.Name())
		if !id.IsValid() || seen[id.Key()] {
			continue
		}
		intro := lo.introspect(id)
		if !intro.IsValid() {
			continue
		}
		seen[id.Key()] = true
		lo.insertPartitioned(id)
	}

	info, err := os.Stat(folder)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", domain.ErrTimestampReadFail, folder, err)
	}
	return info.ModTime(), nil
}

// insertPartitioned inserts id immediately after the last master if it is
// itself a master, else appends it at the tail.
func (lo *LoadOrder) insertPartitioned(id domain.PluginIdentity) {
	if lo.introspect(id).IsMasterFlagSet() {
		pos := lo.LastMasterPosition() + 1
		lo.plugins = append(lo.plugins, domain.PluginIdentity{})
		copy(lo.plugins[pos+1:], lo.plugins[pos:])
		lo.plugins[pos] = id
		return
	}
	lo.plugins = append(lo.plugins, id)
}

// sortByTimestamp stable-sorts the sequence: masters first; within a
// class, ascending by modification time; ties broken by original position.
func (lo *LoadOrder) sortByTimestamp() {
	type entry struct {
		id       domain.PluginIdentity
		isMaster bool
		mtime    time.Time
		pos      int
	}

	entries := make([]entry, len(lo.plugins))
	for i, id := range lo.plugins {
		intro := lo.introspect(id)
		t, _ := intro.ModificationTime()
		entries[i] = entry{id: id, isMaster: intro.IsMasterFlagSet(), mtime: t, pos: i}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].isMaster != entries[j].isMaster {
			return entries[i].isMaster
		}
		return entries[i].mtime.Before(entries[j].mtime)
	})

	out := make([]domain.PluginIdentity, len(entries))
	for i, e := range entries {
		out[i] = e.id
	}
	lo.plugins = out
}

// Save writes the sequence back to disk (timestamp spacing or
// loadorder.txt rewrite, per strategy), then delegates active-set
// persistence to ap where the ordering method requires it.
func (lo *LoadOrder) Save(ap ActivePluginsCollaborator) error {
	return lo.strategy.save(lo, ap)
}

// Move implements §4.4's mutation: if plugin is absent, insert at
// newPosition; if present, remove and re-insert, adjusting newPosition
// downward by one when it followed the plugin's old position (so the
// index refers to the pre-removal sequence). A move that would place a
// non-master before the master partition, or a master after it, is
// rejected with ErrInvalidArgs.
func (lo *LoadOrder) Move(id domain.PluginIdentity, newPosition int) error {
	isMaster := lo.introspect(id).IsMasterFlagSet()
	partition := lo.LastMasterPosition() + 1

	if !isMaster && newPosition < partition {
		return fmt.Errorf("%w: cannot move non-master %q before the master partition", domain.ErrInvalidArgs, id.Name())
	}
	if isMaster && newPosition > partition && partition != len(lo.plugins) {
		return fmt.Errorf("%w: cannot move master %q after non-master plugins", domain.ErrInvalidArgs, id.Name())
	}

	oldPosition := lo.Find(id)
	if oldPosition < len(lo.plugins) {
		lo.plugins = append(lo.plugins[:oldPosition], lo.plugins[oldPosition+1:]...)
		if oldPosition < newPosition {
			newPosition--
		}
	}

	if newPosition < 0 {
		newPosition = 0
	}
	if newPosition > len(lo.plugins) {
		newPosition = len(lo.plugins)
	}

	lo.plugins = append(lo.plugins, domain.PluginIdentity{})
	copy(lo.plugins[newPosition+1:], lo.plugins[newPosition:])
	lo.plugins[newPosition] = id
	return nil
}

// Set replaces the sequence wholesale. The caller is responsible for
// overall validity (IsValid afterwards); Set itself rejects duplicate
// entries, masters not fully preceding non-masters, and, for TEXTFILE and
// ASTERISK games, a sequence whose first entry is not the game's master
// file.
func (lo *LoadOrder) Set(sequence []domain.PluginIdentity) error {
	seen := make(map[string]bool, len(sequence))
	for _, id := range sequence {
		if seen[id.Key()] {
			return fmt.Errorf("%w: %q is a duplicate entry", domain.ErrInvalidArgs, id.Name())
		}
		seen[id.Key()] = true
	}

	sawNonMaster := false
	for _, id := range sequence {
		isMaster := lo.introspect(id).IsMasterFlagSet()
		if !isMaster {
			sawNonMaster = true
		} else if sawNonMaster {
			return fmt.Errorf("%w: master plugins must load before all non-master plugins", domain.ErrInvalidArgs)
		}
	}

	if lo.profile.Method() != domain.Timestamp {
		master := domain.NewPluginIdentity(lo.profile.MasterFile())
		if len(sequence) == 0 || !domain.NewPluginIdentity(sequence[0].Name()).Equal(master) {
			return fmt.Errorf("%w: %q must load first", domain.ErrInvalidArgs, lo.profile.MasterFile())
		}
	}

	lo.plugins = append([]domain.PluginIdentity(nil), sequence...)
	return nil
}

// LastMasterPosition returns the index of the last element whose
// master-flag is set. It returns len-1 if every element is a master, and
// -1 if the sequence is empty (a documented sentinel, chosen over raising
// an error because callers already treat -1+1==0 as "insert at the
// front", which is the correct behavior for an empty list).
func (lo *LoadOrder) LastMasterPosition() int {
	last := -1
	for i, id := range lo.plugins {
		if lo.introspect(id).IsMasterFlagSet() {
			last = i
		}
	}
	return last
}

// Find returns the index of id under case-insensitive comparison, or
// Len() if absent.
func (lo *LoadOrder) Find(id domain.PluginIdentity) int {
	for i, p := range lo.plugins {
		if p.Equal(id) {
			return i
		}
	}
	return len(lo.plugins)
}

// IsValid checks the five invariants of §3 against the live filesystem and
// the record parser.
func (lo *LoadOrder) IsValid() error {
	if len(lo.plugins) == 0 {
		return fmt.Errorf("%w: load order is empty", domain.ErrInvalidArgs)
	}

	master := domain.NewPluginIdentity(lo.profile.MasterFile())
	if !lo.plugins[0].Equal(master) {
		return fmt.Errorf("%w: %q must load first", domain.ErrInvalidArgs, lo.profile.MasterFile())
	}

	seen := make(map[string]bool, len(lo.plugins))
	sawNonMaster := false
	for i, id := range lo.plugins {
		if seen[id.Key()] {
			return fmt.Errorf("%w: %q appears more than once", domain.ErrInvalidArgs, id.Name())
		}
		seen[id.Key()] = true

		intro := lo.introspect(id)
		if !intro.Exists() {
			return fmt.Errorf("%w: %q does not exist in %s", domain.ErrInvalidArgs, id.Name(), lo.profile.PluginsFolder())
		}

		isMaster := intro.IsMasterFlagSet()
		if !isMaster {
			sawNonMaster = true
		} else if sawNonMaster {
			return fmt.Errorf("%w: master %q loads after a non-master", domain.ErrInvalidArgs, id.Name())
		}

		for _, m := range intro.DeclaredMasters() {
			if lo.Find(m) >= i {
				return fmt.Errorf("%w: %q's master %q does not load before it", domain.ErrInvalidArgs, id.Name(), m.Name())
			}
		}
	}

	return nil
}

// HasChanged reports whether the watermark source has advanced past the
// cached mtime, or whether the sequence has never been loaded.
func (lo *LoadOrder) HasChanged() (bool, error) {
	if !lo.loaded || len(lo.plugins) == 0 {
		return true, nil
	}
	return lo.strategy.hasChanged(lo)
}

// IsSynchronised is a cross-check unique to TEXTFILE games: it loads
// loadorder.txt and plugins.txt independently and verifies that
// loadorder.txt, filtered down to only the plugins that also appear in
// plugins.txt, matches plugins.txt's own order. A mismatch means an
// external tool edited one file without the other.
func IsSynchronised(profile domain.GameProfile, parser plugin.RecordParser) (bool, error) {
	if profile.Method() != domain.Textfile {
		return true, nil
	}
	if _, err := os.Stat(profile.ActivePluginsFile()); err != nil {
		return true, nil
	}
	if _, err := os.Stat(profile.LoadOrderFile()); err != nil {
		return true, nil
	}

	fromOrderFile, err := readPlainLines(profile.LoadOrderFile())
	if err != nil {
		return false, err
	}
	fromActiveFile, err := readPlainLines(profile.ActivePluginsFile())
	if err != nil {
		return false, err
	}

	activeSet := make(map[string]bool, len(fromActiveFile))
	var activeNames []string
	for _, line := range fromActiveFile {
		id := domain.NewPluginIdentity(line)
		if !activeSet[id.Key()] {
			activeSet[id.Key()] = true
			activeNames = append(activeNames, id.Key())
		}
	}

	var filtered []string
	for _, line := range fromOrderFile {
		id := domain.NewPluginIdentity(line)
		if activeSet[id.Key()] {
			filtered = append(filtered, id.Key())
		}
	}

	if len(filtered) != len(activeNames) {
		return false, nil
	}
	for i := range filtered {
		if filtered[i] != activeNames[i] {
			return false, nil
		}
	}
	return true, nil
}

func readPlainLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrFileParseFail, path, err)
	}
	var lines []string
	for _, line := range splitLines(string(data)) {
		if line == "" || line[0] == '#' {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			line := s[start:i]
			line = trimCR(line)
			lines = append(lines, line)
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, trimCR(s[start:]))
	}
	return lines
}

func trimCR(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\r' {
		return s[:len(s)-1]
	}
	return s
}
