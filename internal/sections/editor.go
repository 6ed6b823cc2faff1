package sections

import (
	"context"
	"errors"
	"sync"
)

// ErrNoGuild is returned when saving an editor without a guild
var ErrNoGuild = errors.New("no guild selected")

// Saver persists a guild's order and visibility in one write
type Saver interface {
	SaveSections(ctx context.Context, guild string, order []string, visibility map[string]bool) error
}

// Editor holds unsaved reordering and visibility changes for one guild.
// Changes stay local until Save.
type Editor struct {
	mu       sync.Mutex
	guild    string
	sections []Section
	dirty    bool
	saver    Saver
}

// NewEditor loads a saved order and visibility into an editor
func NewEditor(guild string, order []string, visibility map[string]bool, saver Saver) *Editor {
	return &Editor{
		guild:    guild,
		sections: Load(order, visibility),
		saver:    saver,
	}
}

// Sections returns the editor projection, hidden sections included
func (e *Editor) Sections() []Section {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Section, len(e.sections))
	copy(out, e.sections)
	return out
}

// Navigation returns the visible sections
func (e *Editor) Navigation() []Section {
	return Navigation(e.Sections())
}

// Dirty reports whether there are unsaved changes
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// Move applies a drag from sourceID onto targetID
func (e *Editor) Move(sourceID, targetID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sourceID == targetID || indexOf(e.sections, sourceID) < 0 || indexOf(e.sections, targetID) < 0 {
		return
	}
	e.sections = Move(e.sections, sourceID, targetID)
	e.dirty = true
}

// Toggle flips one section's visibility
func (e *Editor) Toggle(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if indexOf(e.sections, id) < 0 {
		return
	}
	e.sections = Toggle(e.sections, id)
	e.dirty = true
}

// Save writes order and visibility together. On failure the local state is kept.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	guild := e.guild
	order, visibility := Persisted(e.sections)
	e.mu.Unlock()

	if guild == "" {
		return ErrNoGuild
	}
	if err := e.saver.SaveSections(ctx, guild, order, visibility); err != nil {
		return err
	}

	e.mu.Lock()
	e.dirty = false
	e.mu.Unlock()
	return nil
}
