package inline

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/unityguilds/hub/internal/auth"
	"github.com/unityguilds/hub/internal/client"
	"github.com/unityguilds/hub/internal/models"
)

type commits struct {
	values []string
	fail   error
}

func (c *commits) commit(ctx context.Context, value string) error {
	c.values = append(c.values, value)
	return c.fail
}

func TestBeginRequiresCanEdit(t *testing.T) {
	rec := &commits{}
	f := NewField("Title", false, false, rec.commit)
	if f.Begin() {
		t.Error("Begin() = true without edit rights")
	}
	if f.Mode() != Display {
		t.Errorf("Mode() = %v, want display", f.Mode())
	}
}

func TestSave(t *testing.T) {
	tests := []struct {
		name      string
		draft     string
		fail      error
		wantMode  Mode
		wantValue string
		wantCalls int
	}{
		{"unchanged skips write", "Title", nil, Display, "Title", 0},
		{"changed commits", "New Title", nil, Display, "New Title", 1},
		{"failure keeps editing", "New Title", errors.New("Failed to save"), Editing, "Title", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &commits{fail: tt.fail}
			f := NewField("Title", true, false, rec.commit)
			if !f.Begin() {
				t.Fatal("Begin() = false")
			}
			f.SetDraft(tt.draft)

			err := f.Save(context.Background())
			if (err != nil) != (tt.fail != nil) {
				t.Errorf("Save() error = %v, want %v", err, tt.fail)
			}
			if f.Mode() != tt.wantMode {
				t.Errorf("Mode() = %v, want %v", f.Mode(), tt.wantMode)
			}
			if f.Value() != tt.wantValue {
				t.Errorf("Value() = %q, want %q", f.Value(), tt.wantValue)
			}
			if len(rec.values) != tt.wantCalls {
				t.Errorf("commits = %v, want %d", rec.values, tt.wantCalls)
			}
			if tt.fail != nil {
				if f.Draft() != tt.draft {
					t.Errorf("Draft() = %q, want %q kept", f.Draft(), tt.draft)
				}
				if f.Err() != "Failed to save" {
					t.Errorf("Err() = %q", f.Err())
				}
			}
		})
	}
}

func TestSaveOutsideEditing(t *testing.T) {
	f := NewField("x", true, false, (&commits{}).commit)
	if err := f.Save(context.Background()); !errors.Is(err, ErrNotEditing) {
		t.Errorf("Save() error = %v, want ErrNotEditing", err)
	}
}

func TestCancel(t *testing.T) {
	rec := &commits{}
	f := NewField("Title", true, false, rec.commit)
	f.Begin()
	f.SetDraft("Draft")
	f.Cancel()

	if f.Mode() != Display || f.Value() != "Title" || f.Draft() != "" {
		t.Errorf("after Cancel: mode %v value %q draft %q", f.Mode(), f.Value(), f.Draft())
	}
	if len(rec.values) != 0 {
		t.Errorf("commits = %v, want none", rec.values)
	}
}

func TestHandleKey(t *testing.T) {
	tests := []struct {
		name      string
		multiline bool
		key       Key
		wantUsed  bool
		wantMode  Mode
		wantCalls int
	}{
		{"enter saves single line", false, Key{Name: "Enter"}, true, Display, 1},
		{"enter is newline in multi line", true, Key{Name: "Enter"}, false, Editing, 0},
		{"ctrl enter saves multi line", true, Key{Name: "Enter", Ctrl: true}, true, Display, 1},
		{"meta enter saves multi line", true, Key{Name: "Enter", Meta: true}, true, Display, 1},
		{"escape cancels", true, Key{Name: "Escape"}, true, Display, 0},
		{"other keys ignored", false, Key{Name: "a"}, false, Editing, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &commits{}
			f := NewField("before", true, tt.multiline, rec.commit)
			f.Begin()
			f.SetDraft("after")

			used, err := f.HandleKey(context.Background(), tt.key)
			if err != nil {
				t.Fatalf("HandleKey() error = %v", err)
			}
			if used != tt.wantUsed {
				t.Errorf("HandleKey() = %v, want %v", used, tt.wantUsed)
			}
			if f.Mode() != tt.wantMode {
				t.Errorf("Mode() = %v, want %v", f.Mode(), tt.wantMode)
			}
			if len(rec.values) != tt.wantCalls {
				t.Errorf("commits = %v, want %d", rec.values, tt.wantCalls)
			}
		})
	}
}

func TestRecordField(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"id":"n-1","title":"Spring Issue"}`))
	}))
	defer server.Close()

	api, _ := client.New(server.URL)
	commit, err := RecordField(api, "newsletters", "n-1", "title")
	if err != nil {
		t.Fatalf("RecordField() error = %v", err)
	}
	f := NewField("Winter Issue", true, false, commit)
	f.Begin()
	f.SetDraft("Spring Issue")
	if err := f.Save(context.Background()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if gotPath != "PUT /api/newsletters/n-1" {
		t.Errorf("request = %q", gotPath)
	}
	if len(gotBody) != 1 || gotBody["title"] != "Spring Issue" {
		t.Errorf("body = %v, want only title", gotBody)
	}
}

func TestForSession(t *testing.T) {
	tests := []struct {
		name string
		sess *auth.Session
		want bool
	}{
		{"signed out", nil, false},
		{"member of the guild", &auth.Session{Guild: "black", Role: models.RoleMember}, false},
		{"staff of the guild", &auth.Session{Guild: "black", Role: models.RoleNewsletterTeam}, true},
		{"staff of another guild", &auth.Session{Guild: "women", Role: models.RoleNewsletterTeam}, false},
		{"super admin", &auth.Session{Guild: "women", Role: models.RoleSuperAdmin}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ForSession(tt.sess, "black", "Title", false, (&commits{}).commit)
			if got := f.Begin(); got != tt.want {
				t.Errorf("Begin() = %v, want %v", got, tt.want)
			}
			if tt.want != (f.Mode() == Editing) {
				t.Errorf("Mode() = %v after Begin() = %v", f.Mode(), tt.want)
			}
		})
	}
}

func TestForRecord(t *testing.T) {
	tests := []struct {
		name    string
		session string
		want    bool
	}{
		{"signed out", "", false},
		{"member", `{"discord_id":"4","guild":"pride","role":"member"}`, false},
		{"guild staff", `{"discord_id":"5","guild":"pride","role":"mentor"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.session == "" {
					w.WriteHeader(http.StatusUnauthorized)
					w.Write([]byte(`{"error":"Not authenticated"}`))
					return
				}
				w.Write([]byte(tt.session))
			}))
			defer server.Close()

			api, _ := client.New(server.URL)
			f, err := ForRecord(context.Background(), api, "pride", "events", "e-1", "title", "Game Night", false)
			if err != nil {
				t.Fatalf("ForRecord() error = %v", err)
			}
			if got := f.Begin(); got != tt.want {
				t.Errorf("Begin() = %v, want %v", got, tt.want)
			}
		})
	}
}
