package sections

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func ids(sections []Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.ID
	}
	return out
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		order      []string
		visibility map[string]bool
		wantIDs    []string
		wantHidden []string
	}{
		{
			name:    "nothing saved",
			wantIDs: DefaultOrder(),
		},
		{
			name:    "saved order first, missing appended in catalog order",
			order:   []string{"events", "home"},
			wantIDs: []string{"events", "home", "newsletter", "archive", "announcements", "spotlight", "recaps", "highlights", "streams"},
		},
		{
			name:    "unknown and repeated ids dropped",
			order:   []string{"podcast", "streams", "streams", "home"},
			wantIDs: []string{"streams", "home", "newsletter", "archive", "announcements", "events", "spotlight", "recaps", "highlights"},
		},
		{
			name:       "hidden kept in editor projection",
			order:      []string{"home", "events"},
			visibility: map[string]bool{"events": false, "home": true, "removed": false},
			wantIDs:    []string{"home", "events", "newsletter", "archive", "announcements", "spotlight", "recaps", "highlights", "streams"},
			wantHidden: []string{"events"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Load(tt.order, tt.visibility)
			if !reflect.DeepEqual(ids(got), tt.wantIDs) {
				t.Errorf("Load() ids = %v, want %v", ids(got), tt.wantIDs)
			}

			hidden := map[string]bool{}
			for _, id := range tt.wantHidden {
				hidden[id] = true
			}
			for _, s := range got {
				if s.Visible == hidden[s.ID] {
					t.Errorf("Load() %s visible = %v", s.ID, s.Visible)
				}
				if s.Label == "" || s.Icon == "" {
					t.Errorf("Load() %s missing label or icon", s.ID)
				}
			}
		})
	}
}

func TestNavigationSkipsHidden(t *testing.T) {
	loaded := Load([]string{"events", "home"}, map[string]bool{"home": false, "streams": false})
	nav := Navigation(loaded)
	if len(nav) != len(Catalog)-2 {
		t.Fatalf("Navigation() = %d sections, want %d", len(nav), len(Catalog)-2)
	}
	if nav[0].ID != "events" {
		t.Errorf("Navigation()[0] = %q, want events", nav[0].ID)
	}
	for _, s := range nav {
		if s.ID == "home" || s.ID == "streams" {
			t.Errorf("Navigation() included hidden %q", s.ID)
		}
	}
}

func TestMove(t *testing.T) {
	base := Load([]string{"home", "newsletter", "archive", "events"}, nil)

	tests := []struct {
		name   string
		source string
		target string
		want   []string
	}{
		{"forward", "home", "archive", []string{"newsletter", "archive", "home", "events"}},
		{"backward", "events", "newsletter", []string{"home", "events", "newsletter", "archive"}},
		{"same", "home", "home", []string{"home", "newsletter", "archive", "events"}},
		{"unknown", "home", "podcast", []string{"home", "newsletter", "archive", "events"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Move(base, tt.source, tt.target))[:4]
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Move(%s, %s) = %v, want %v", tt.source, tt.target, got, tt.want)
			}
		})
	}

	if ids(base)[0] != "home" {
		t.Error("Move() modified its input")
	}
}

func TestToggleKeepsOrder(t *testing.T) {
	base := Load(nil, nil)
	toggled := Toggle(base, "recaps")
	if !reflect.DeepEqual(ids(base), ids(toggled)) {
		t.Errorf("Toggle() changed order")
	}
	for i := range toggled {
		want := base[i].Visible
		if toggled[i].ID == "recaps" {
			want = !want
		}
		if toggled[i].Visible != want {
			t.Errorf("Toggle() %s visible = %v, want %v", toggled[i].ID, toggled[i].Visible, want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	orders := [][]string{
		DefaultOrder(),
		{"streams", "highlights", "recaps", "spotlight", "events", "announcements", "archive", "newsletter", "home"},
		{"events", "home", "spotlight", "newsletter", "streams", "archive", "recaps", "announcements", "highlights"},
	}
	visibilities := []map[string]bool{
		{},
		{"home": false},
		{"events": false, "streams": false, "archive": true},
	}

	for _, order := range orders {
		for _, vis := range visibilities {
			saved := Load(order, vis)
			gotOrder, gotVis := Persisted(saved)
			reloaded := Load(gotOrder, gotVis)
			if !reflect.DeepEqual(saved, reloaded) {
				t.Errorf("round trip changed sections: %v -> %v", ids(saved), ids(reloaded))
			}
			if !reflect.DeepEqual(gotOrder, order) {
				t.Errorf("Persisted() order = %v, want %v", gotOrder, order)
			}
		}
	}

	// new catalog ids absent from an older save are appended visible
	reloaded := Load([]string{"home", "events"}, map[string]bool{"home": true, "events": false})
	last := reloaded[len(reloaded)-1]
	if last.ID != "streams" || !last.Visible {
		t.Errorf("appended section = %+v, want visible streams", last)
	}
}

type fakeSaver struct {
	guild      string
	order      []string
	visibility map[string]bool
	err        error
	calls      int
}

func (f *fakeSaver) SaveSections(ctx context.Context, guild string, order []string, visibility map[string]bool) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.guild, f.order, f.visibility = guild, order, visibility
	return nil
}

func TestEditor(t *testing.T) {
	saver := &fakeSaver{}
	e := NewEditor("latin", nil, nil, saver)

	if e.Dirty() {
		t.Error("new editor should not be dirty")
	}
	e.Move("streams", "home")
	e.Toggle("archive")
	if !e.Dirty() {
		t.Error("editor should be dirty after changes")
	}
	if saver.calls != 0 {
		t.Error("changes should not be saved before Save")
	}

	if len(e.Navigation()) != len(Catalog)-1 {
		t.Errorf("Navigation() = %d sections, want %d", len(e.Navigation()), len(Catalog)-1)
	}

	saver.err = errors.New("offline")
	if err := e.Save(context.Background()); err == nil {
		t.Fatal("Save() should return saver error")
	}
	if !e.Dirty() || e.Sections()[0].ID != "streams" {
		t.Error("failed Save() should keep local changes")
	}

	saver.err = nil
	if err := e.Save(context.Background()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if e.Dirty() {
		t.Error("editor should be clean after Save")
	}
	if saver.guild != "latin" || saver.order[0] != "streams" || saver.visibility["archive"] {
		t.Errorf("saved %s %v %v", saver.guild, saver.order, saver.visibility)
	}
	if len(saver.order) != len(saver.visibility) {
		t.Error("order and visibility should cover the same ids")
	}

	if err := NewEditor("", nil, nil, saver).Save(context.Background()); !errors.Is(err, ErrNoGuild) {
		t.Errorf("Save() without guild error = %v, want ErrNoGuild", err)
	}
}
