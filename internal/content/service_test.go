package content

import (
	"context"
	"fmt"
	"testing"

	"github.com/unityguilds/hub/internal/apperr"
	"github.com/unityguilds/hub/internal/auth"
	"github.com/unityguilds/hub/internal/db"
	"github.com/unityguilds/hub/internal/models"
	"github.com/unityguilds/hub/pkg/config"
)

func newTestServices(t *testing.T) *Services {
	t.Helper()
	database, err := db.New(&config.DatabaseConfig{Driver: "sqlite", URL: ":memory:"}, "ERROR")
	if err != nil {
		t.Fatalf("db.New() error = %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewServices(NewRepositories(db.NewRepository(database.DB)), nil)
}

func staff(guild string) *auth.Session {
	return &auth.Session{DiscordID: "staff-" + guild, Guild: guild, Role: models.RoleNewsletterTeam}
}

var superAdmin = &auth.Session{DiscordID: "admin", Guild: "women", Role: models.RoleSuperAdmin}

func TestCreateEventAuthorization(t *testing.T) {
	svc := newTestServices(t).Events
	ctx := context.Background()
	body := []byte(`{"guild":"women","title":"Game Night","event_date":"2026-02-22"}`)

	tests := []struct {
		name     string
		session  *auth.Session
		body     []byte
		wantKind apperr.Kind
		wantErr  bool
	}{
		{name: "own guild staff", session: staff("women"), body: body},
		{name: "other guild staff", session: staff("black"), body: body, wantErr: true, wantKind: apperr.KindForbidden},
		{name: "member", session: &auth.Session{DiscordID: "m", Guild: "women", Role: models.RoleMember}, body: body, wantErr: true, wantKind: apperr.KindForbidden},
		{name: "no session", session: nil, body: body, wantErr: true, wantKind: apperr.KindAuthentication},
		{name: "super admin other guild", session: &auth.Session{DiscordID: "a", Guild: "black", Role: models.RoleSuperAdmin}, body: body},
		{name: "missing guild", session: staff("women"), body: []byte(`{"title":"x","event_date":"2026-02-22"}`), wantErr: true, wantKind: apperr.KindValidation},
		{name: "unknown guild", session: superAdmin, body: []byte(`{"guild":"nowhere","title":"x","event_date":"2026-02-22"}`), wantErr: true, wantKind: apperr.KindValidation},
		{name: "missing title", session: staff("women"), body: []byte(`{"guild":"women","event_date":"2026-02-22"}`), wantErr: true, wantKind: apperr.KindValidation},
		{name: "bad date", session: staff("women"), body: []byte(`{"guild":"women","title":"x","event_date":"22/02/2026"}`), wantErr: true, wantKind: apperr.KindValidation},
		{name: "malformed json", session: staff("women"), body: []byte(`{"guild":`), wantErr: true, wantKind: apperr.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := svc.Create(ctx, tt.session, tt.body)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Create() = %+v, want error", ev)
				}
				if got := apperr.KindOf(err); got != tt.wantKind {
					t.Errorf("Create() error kind = %v, want %v (%v)", got, tt.wantKind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if ev.ID == "" || ev.Title != "Game Night" || ev.Guild != "women" {
				t.Errorf("Create() = %+v", ev)
			}
		})
	}
}

func TestCreateIgnoresClientIDs(t *testing.T) {
	svc := newTestServices(t).Announcements
	a, err := svc.Create(context.Background(), staff("latin"),
		[]byte(`{"id":"chosen","guild":"latin","title":"Hello","created_at":"2001-01-01T00:00:00Z"}`))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if a.ID == "chosen" || a.CreatedAt.Year() == 2001 {
		t.Errorf("Create() kept client supplied id or timestamp: %+v", a)
	}
}

func TestListRequiresGuild(t *testing.T) {
	svc := newTestServices(t).Events
	_, err := svc.List(context.Background(), "", ListQuery{})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("List() without guild error = %v, want validation error", err)
	}

	rows, err := svc.List(context.Background(), "women", ListQuery{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("List() on empty guild = %v, want empty slice", rows)
	}
}

func TestUpdateUsesStoredGuild(t *testing.T) {
	svc := newTestServices(t).Events
	ctx := context.Background()

	ev, err := svc.Create(ctx, staff("women"), []byte(`{"guild":"women","title":"Game Night","event_date":"2026-02-22"}`))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// black staff claiming the row's guild is black
	_, err = svc.Update(ctx, staff("black"), ev.ID, []byte(`{"guild":"black","title":"Hijacked"}`))
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("Update() by other guild error = %v, want forbidden", err)
	}
	if err := svc.Remove(ctx, staff("black"), ev.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("Remove() by other guild error = %v, want forbidden", err)
	}

	// own staff moving the row to another guild is ignored
	updated, err := svc.Update(ctx, staff("women"), ev.ID, []byte(`{"guild":"black","location":"Discord Stage"}`))
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Guild != "women" {
		t.Errorf("Update() changed guild to %q", updated.Guild)
	}

	stored, err := svc.Get(ctx, ev.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Guild != "women" || stored.Title != "Game Night" || stored.Location == nil || *stored.Location != "Discord Stage" {
		t.Errorf("stored row = %+v", stored)
	}
}

func TestUpdatePartialSemantics(t *testing.T) {
	svc := newTestServices(t).Events
	ctx := context.Background()

	ev, err := svc.Create(ctx, staff("pride"), []byte(`{"guild":"pride","title":"Parade","event_date":"2026-06-01","location":"Main St","event_time":"7 PM"}`))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.Update(ctx, staff("pride"), ev.ID, []byte(`{"location":null,"title":""}`)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	stored, _ := svc.Get(ctx, ev.ID)
	if stored.Location != nil {
		t.Errorf("explicit null location = %v, want nil", *stored.Location)
	}
	if stored.Title != "" {
		t.Errorf("explicit empty title = %q, want empty", stored.Title)
	}
	if stored.EventTime == nil || *stored.EventTime != "7 PM" {
		t.Errorf("omitted event_time changed: %v", stored.EventTime)
	}

	tests := []struct {
		name string
		body string
	}{
		{"null on required column", `{"event_date":null}`},
		{"bad date", `{"event_date":"June 1"}`},
		{"wrong type", `{"title":5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, staff("pride"), ev.ID, []byte(tt.body))
			if !apperr.Is(err, apperr.KindValidation) {
				t.Errorf("Update(%s) error = %v, want validation error", tt.body, err)
			}
		})
	}

	if _, err := svc.Update(ctx, staff("pride"), "missing-id", []byte(`{"title":"x"}`)); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Update() unknown id error = %v, want not found", err)
	}
	if _, err := svc.Update(ctx, nil, ev.ID, []byte(`{"title":"x"}`)); !apperr.Is(err, apperr.KindAuthentication) {
		t.Errorf("Update() without session error = %v, want authentication", err)
	}
}

func TestRemove(t *testing.T) {
	svc := newTestServices(t).Highlights
	ctx := context.Background()

	h, err := svc.Create(ctx, staff("ia"), []byte(`{"guild":"ia","title":"Powwow stream"}`))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := svc.Remove(ctx, staff("ia"), h.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := svc.Get(ctx, h.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Get() after Remove error = %v, want not found", err)
	}
	if err := svc.Remove(ctx, staff("ia"), h.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Remove() twice error = %v, want not found", err)
	}
}

func TestNewsletterPublishing(t *testing.T) {
	svc := newTestServices(t).Newsletters
	ctx := context.Background()

	n, err := svc.Create(ctx, staff("women"), []byte(`{"guild":"women","title":"Issue"}`))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if n.IssueNumber != 1 || n.Content != "" || n.PublishedAt != nil {
		t.Errorf("Create() defaults = %+v", n)
	}

	n, err = svc.Update(ctx, staff("women"), n.ID, []byte(`{"published":true}`))
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	stored, _ := svc.Get(ctx, n.ID)
	if !stored.Published || stored.PublishedAt == nil {
		t.Errorf("published newsletter = %+v, want published_at set", stored)
	}

	if _, err := svc.Update(ctx, staff("women"), n.ID, []byte(`{"published":false}`)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	stored, _ = svc.Get(ctx, n.ID)
	if stored.Published || stored.PublishedAt != nil {
		t.Errorf("unpublished newsletter = %+v, want published_at cleared", stored)
	}

	published, err := svc.Create(ctx, staff("women"), []byte(`{"guild":"women","title":"Live","published":true,"issue_number":4}`))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if published.PublishedAt == nil || published.IssueNumber != 4 {
		t.Errorf("Create() published = %+v", published)
	}
}

func TestSpotlightCurrentThroughService(t *testing.T) {
	svc := newTestServices(t).Spotlights
	ctx := context.Background()

	var ids []string
	for i := 0; i < 2; i++ {
		s, err := svc.Create(ctx, staff("pride"), []byte(fmt.Sprintf(`{"guild":"pride","member_name":"member %d"}`, i)))
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		ids = append(ids, s.ID)
	}

	for _, id := range ids {
		if _, err := svc.Update(ctx, staff("pride"), id, []byte(`{"is_current":true}`)); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}

	current, err := svc.List(ctx, "pride", ListQuery{Filters: map[string]string{"is_current": "true"}})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(current) != 1 || current[0].ID != ids[1] {
		t.Errorf("current spotlights = %d, want exactly the last one", len(current))
	}
}

func TestListOrdering(t *testing.T) {
	svc := newTestServices(t).Announcements
	ctx := context.Background()

	for _, body := range []string{
		`{"guild":"black","title":"first"}`,
		`{"guild":"black","title":"pinned","pinned":true}`,
		`{"guild":"black","title":"second"}`,
	} {
		if _, err := svc.Create(ctx, staff("black"), []byte(body)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	rows, err := svc.List(ctx, "black", ListQuery{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rows) != 3 || rows[0].Title != "pinned" {
		t.Errorf("List() first row = %q, want pinned first", rows[0].Title)
	}

	rows, err = svc.List(ctx, "black", ListQuery{Order: "title.asc", Limit: "2"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rows) != 2 || rows[0].Title != "first" || rows[1].Title != "pinned" {
		t.Errorf("List(title.asc, 2) = %q, %q", rows[0].Title, rows[1].Title)
	}

	if _, err := svc.List(ctx, "black", ListQuery{Order: "drop table"}); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("List() with unknown order column error = %v, want validation", err)
	}
}

func TestStoresCoverEveryCollection(t *testing.T) {
	stores := newTestServices(t).Stores()
	for _, name := range Names {
		store, ok := stores[name]
		if !ok {
			t.Errorf("Stores() missing %q", name)
			continue
		}
		if store.Collection().Name != name {
			t.Errorf("Stores()[%q].Collection().Name = %q", name, store.Collection().Name)
		}
	}
}
