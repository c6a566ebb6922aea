// Package handle implements GameHandle: the single entry point a caller
// holds, aggregating a GameProfile, a LoadOrder, and an ActivePlugins, and
// reconciling cached state against the filesystem on every public call.
package handle

import (
	"fmt"

	"github.com/mod-tools/loadorder/internal/activeplugins"
	"github.com/mod-tools/loadorder/internal/domain"
	"github.com/mod-tools/loadorder/internal/loadorder"
	"github.com/mod-tools/loadorder/internal/plugin"
)

// GameHandle is the sole entry point a caller holds for one game
// installation. Not safe for concurrent use, per the single-threaded
// synchronous model: a caller juggling several games holds one GameHandle
// per game.
type GameHandle struct {
	profile domain.GameProfile
	parser  plugin.RecordParser
	order   *loadorder.LoadOrder
	active  *activeplugins.ActivePlugins
	audit   AuditSink
}

// AuditSink records a mutation performed through a GameHandle. A nil sink
// disables auditing; New leaves it nil by default. Use WithAudit to attach
// one (e.g. internal/storage/audit.Journal).
type AuditSink interface {
	Record(operation, plugin string, valid bool) error
}

// New builds a GameHandle for profile, using parser to answer header-level
// questions about plugin files. The handle is not loaded until the first
// operation touches it.
func New(profile domain.GameProfile, parser plugin.RecordParser) *GameHandle {
	return &GameHandle{
		profile: profile,
		parser:  parser,
		order:   loadorder.New(profile, parser),
		active:  activeplugins.New(profile, parser),
	}
}

// WithAudit attaches an audit sink and returns the handle for chaining.
func (h *GameHandle) WithAudit(sink AuditSink) *GameHandle {
	h.audit = sink
	return h
}

// Profile returns the GameProfile this handle was constructed from.
func (h *GameHandle) Profile() domain.GameProfile {
	return h.profile
}

func (h *GameHandle) reloadOrderIfChanged() error {
	changed, err := h.order.HasChanged()
	if err != nil {
		return err
	}
	if changed {
		return h.order.Load()
	}
	return nil
}

func (h *GameHandle) reloadActiveIfChanged() error {
	changed, err := h.active.HasChanged()
	if err != nil {
		return err
	}
	if changed {
		return h.active.Load()
	}
	return nil
}

func (h *GameHandle) record(operation string, id domain.PluginIdentity, validErr error) {
	if h.audit == nil {
		return
	}
	// Auditing is best-effort diagnostics, not a correctness mechanism: a
	// failure to write the journal must not fail the caller's operation.
	_ = h.audit.Record(operation, id.Name(), validErr == nil)
}

// GetLoadOrder reloads on external change and returns a read-only view.
func (h *GameHandle) GetLoadOrder() ([]domain.PluginIdentity, error) {
	if err := h.reloadOrderIfChanged(); err != nil {
		return nil, err
	}
	return h.order.Plugins(), nil
}

// SetLoadOrder replaces the in-memory order, persists it, and persists the
// active set alongside it for ordering methods where the two files are
// coupled (TEXTFILE, ASTERISK).
func (h *GameHandle) SetLoadOrder(seq []domain.PluginIdentity) error {
	if err := h.reloadOrderIfChanged(); err != nil {
		return err
	}
	if err := h.order.Set(seq); err != nil {
		return err
	}
	err := h.order.Save(h.active)
	h.record("set_load_order", domain.PluginIdentity{}, err)
	return err
}

// GetActivePlugins reloads on external change and returns a read-only view.
func (h *GameHandle) GetActivePlugins() ([]domain.PluginIdentity, error) {
	if err := h.reloadActiveIfChanged(); err != nil {
		return nil, err
	}
	return h.active.Plugins(), nil
}

// SetActivePlugins replaces the active set wholesale, rejecting it with
// ErrInvalidArgs (before any write) if it would exceed the 255-plugin cap
// or drop a required implicit plugin.
func (h *GameHandle) SetActivePlugins(set []domain.PluginIdentity) error {
	if err := h.reloadActiveIfChanged(); err != nil {
		return err
	}
	if len(set) > 255 {
		return fmt.Errorf("%w: %d plugins exceeds the 255-plugin active limit", domain.ErrInvalidArgs, len(set))
	}
	for _, name := range h.profile.ImplicitPlugins() {
		id := domain.NewPluginIdentity(name)
		found := false
		for _, s := range set {
			if s.Equal(id) {
				found = true
				break
			}
		}
		if !found && plugin.New(id, h.profile, h.parser).Exists() {
			return fmt.Errorf("%w: implicit plugin %q must stay active", domain.ErrInvalidArgs, name)
		}
	}

	for _, id := range h.active.Plugins() {
		if !containsIdentity(set, id) {
			if err := h.active.Deactivate(id); err != nil {
				return err
			}
		}
	}
	for _, id := range set {
		if err := h.active.Activate(id); err != nil {
			return err
		}
	}

	err := h.active.Save(h.order.Plugins())
	h.record("set_active_plugins", domain.PluginIdentity{}, err)
	return err
}

// IsActive is a set-membership query with reload-on-change.
func (h *GameHandle) IsActive(id domain.PluginIdentity) (bool, error) {
	if err := h.reloadActiveIfChanged(); err != nil {
		return false, err
	}
	return h.active.IsActive(id), nil
}

// Activate adds id to the active set and persists. Activating a plugin
// that would take the set past 255 entries is rejected with
// ErrInvalidArgs, leaving the set unchanged.
func (h *GameHandle) Activate(id domain.PluginIdentity) error {
	if err := h.reloadActiveIfChanged(); err != nil {
		return err
	}
	if !h.active.IsActive(id) && h.active.Len() >= 255 {
		return fmt.Errorf("%w: activating %q would exceed the 255-plugin active limit", domain.ErrInvalidArgs, id.Name())
	}
	if err := h.active.Activate(id); err != nil {
		return err
	}
	err := h.active.Save(h.order.Plugins())
	h.record("activate", id, err)
	return err
}

// Deactivate removes id from the active set and persists.
func (h *GameHandle) Deactivate(id domain.PluginIdentity) error {
	if err := h.reloadActiveIfChanged(); err != nil {
		return err
	}
	if err := h.active.Deactivate(id); err != nil {
		return err
	}
	err := h.active.Save(h.order.Plugins())
	h.record("deactivate", id, err)
	return err
}

// GetPluginPosition reloads and returns id's 1-based position, or 0 if
// absent.
func (h *GameHandle) GetPluginPosition(id domain.PluginIdentity) (int, error) {
	if err := h.reloadOrderIfChanged(); err != nil {
		return 0, err
	}
	idx := h.order.Find(id)
	if idx >= h.order.Len() {
		return 0, nil
	}
	return idx + 1, nil
}

// SetPluginPosition moves id to the 1-based position pos and persists.
func (h *GameHandle) SetPluginPosition(id domain.PluginIdentity, pos int) error {
	if err := h.reloadOrderIfChanged(); err != nil {
		return err
	}
	if pos < 1 {
		return fmt.Errorf("%w: position must be 1-based, got %d", domain.ErrInvalidArgs, pos)
	}
	if err := h.order.Move(id, pos-1); err != nil {
		return err
	}
	err := h.order.Save(h.active)
	h.record("set_plugin_position", id, err)
	return err
}

func containsIdentity(set []domain.PluginIdentity, id domain.PluginIdentity) bool {
	for _, s := range set {
		if s.Equal(id) {
			return true
		}
	}
	return false
}
