package inline

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/unityguilds/hub/internal/auth"
	"github.com/unityguilds/hub/internal/client"
	"github.com/unityguilds/hub/pkg/logging"
)

// Mode is where a field is in its edit cycle
type Mode int

const (
	Display Mode = iota
	Editing
	Saving
)

func (m Mode) String() string {
	switch m {
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	default:
		return "display"
	}
}

// ErrNotEditing is returned by Save outside of Editing
var ErrNotEditing = errors.New("field is not being edited")

// Committer writes a new value for one field
type Committer func(ctx context.Context, value string) error

// Field is one click-to-edit value.
// The draft is separate from the committed value until a save succeeds.
type Field struct {
	mu        sync.Mutex
	mode      Mode
	value     string
	draft     string
	err       string
	canEdit   bool
	multiline bool
	commit    Committer
	logger    *zap.Logger
}

// NewField creates a field in Display mode
func NewField(value string, canEdit, multiline bool, commit Committer) *Field {
	return &Field{
		value:     value,
		canEdit:   canEdit,
		multiline: multiline,
		commit:    commit,
		logger:    logging.WithComponent("inline"),
	}
}

// ForSession creates a field that sess may edit only when it can edit guild's content
func ForSession(sess *auth.Session, guild, value string, multiline bool, commit Committer) *Field {
	return NewField(value, auth.CanEdit(sess, guild), multiline, commit)
}

// Begin enters Editing with the committed value as the draft.
// It reports false when the caller may not edit.
func (f *Field) Begin() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.canEdit || f.mode != Display {
		return false
	}
	f.draft = f.value
	f.err = ""
	f.mode = Editing
	return true
}

// SetDraft replaces the draft while editing
func (f *Field) SetDraft(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode == Editing {
		f.draft = s
	}
}

// Save commits the draft. An unchanged draft returns to Display without a write.
// On failure the field stays in Editing with the draft kept.
func (f *Field) Save(ctx context.Context) error {
	f.mu.Lock()
	if f.mode != Editing {
		f.mu.Unlock()
		return ErrNotEditing
	}
	if f.draft == f.value {
		f.mode = Display
		f.mu.Unlock()
		return nil
	}
	draft := f.draft
	f.mode = Saving
	f.err = ""
	f.mu.Unlock()

	err := f.commit(ctx, draft)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.logger.Debug("inline save failed", zap.Error(err))
		f.err = err.Error()
		f.mode = Editing
		return err
	}
	f.value = draft
	f.draft = ""
	f.mode = Display
	return nil
}

// Cancel drops the draft and returns to Display
func (f *Field) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode != Editing {
		return
	}
	f.draft = ""
	f.err = ""
	f.mode = Display
}

// Key is a key press in the editor
type Key struct {
	Name string
	Ctrl bool
	Meta bool
}

// HandleKey applies the keyboard contract. Enter saves a single-line field.
// A multi-line field needs Ctrl or Meta with Enter, since plain Enter is a newline.
// Escape cancels. It reports whether the key was consumed.
func (f *Field) HandleKey(ctx context.Context, k Key) (bool, error) {
	f.mu.Lock()
	mode, multiline := f.mode, f.multiline
	f.mu.Unlock()
	if mode != Editing {
		return false, nil
	}

	switch {
	case k.Name == "Enter" && (!multiline || k.Ctrl || k.Meta):
		return true, f.Save(ctx)
	case k.Name == "Escape":
		f.Cancel()
		return true, nil
	}
	return false, nil
}

// Mode returns the current mode
func (f *Field) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// Value returns the committed value
func (f *Field) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Draft returns the uncommitted draft
func (f *Field) Draft() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Err returns the last save error, cleared by Begin, Cancel and a new Save
func (f *Field) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// RecordField commits to one column of a content row through the API
func RecordField(c *client.Client, collection, id, column string) (Committer, error) {
	col, err := client.CollectionOf[map[string]interface{}](c, collection)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, value string) error {
		_, err := col.Update(ctx, id, map[string]interface{}{column: value})
		return err
	}, nil
}

// ForRecord creates a field bound to one column of a content row owned by guild.
// Edit rights come from the client's current session.
func ForRecord(ctx context.Context, c *client.Client, guild, collection, id, column, value string, multiline bool) (*Field, error) {
	commit, err := RecordField(c, collection, id, column)
	if err != nil {
		return nil, err
	}
	sess, err := c.Session(ctx)
	if err != nil {
		return nil, err
	}
	return ForSession(sess, guild, value, multiline, commit), nil
}
