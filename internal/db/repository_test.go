package db

import (
	"context"
	"sync"
	"testing"

	"gorm.io/gorm/logger"

	"github.com/unityguilds/hub/internal/models"
	"github.com/unityguilds/hub/pkg/config"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(&config.DatabaseConfig{Driver: "sqlite", URL: ":memory:"}, "ERROR")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func strPtr(s string) *string { return &s }

func TestNewUnsupportedDriver(t *testing.T) {
	if _, err := New(&config.DatabaseConfig{Driver: "mysql", URL: "x"}, "INFO"); err == nil {
		t.Error("New() with unsupported driver should fail")
	}
}

func TestGormLevel(t *testing.T) {
	tests := []struct {
		level string
		want  logger.LogLevel
	}{
		{"DEBUG", logger.Info},
		{"info", logger.Warn},
		{"warning", logger.Error},
		{"ERROR", logger.Silent},
		{"", logger.Warn},
	}
	for _, tt := range tests {
		if got := gormLevel(tt.level); got != tt.want {
			t.Errorf("gormLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestContentRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewContentRepository[models.Event](NewRepository(newTestDB(t).DB))

	for _, ev := range []*models.Event{
		{Item: models.Item{Guild: "women"}, Title: "Late", EventDate: "2026-03-01"},
		{Item: models.Item{Guild: "women"}, Title: "Early", EventDate: "2026-01-15"},
		{Item: models.Item{Guild: "black"}, Title: "Other", EventDate: "2026-02-01"},
	} {
		if err := repo.Create(ctx, ev); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if ev.ID == "" || ev.CreatedAt.IsZero() {
			t.Fatalf("Create() did not assign id and timestamps: %+v", ev)
		}
	}

	rows, err := repo.List(ctx, "women", ListOptions{Order: []OrderBy{{Column: "event_date"}}})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rows) != 2 || rows[0].Title != "Early" || rows[1].Title != "Late" {
		t.Fatalf("List() = %v, want [Early Late]", titles(rows))
	}

	target := rows[1]
	target.Title = "Renamed"
	target.Location = strPtr("Stage")
	target.EventDate = "1999-01-01" // not in the column list, must not be written
	if err := repo.Update(ctx, target, []string{"title", "location"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(ctx, target.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID() = %v, %v", got, err)
	}
	if got.Title != "Renamed" || got.Location == nil || *got.Location != "Stage" {
		t.Errorf("GetByID() after update = %+v", got)
	}
	if got.EventDate != "2026-03-01" {
		t.Errorf("Update() wrote unlisted column event_date = %q", got.EventDate)
	}

	if err := repo.Delete(ctx, target.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	got, err = repo.GetByID(ctx, target.ID)
	if err != nil || got != nil {
		t.Errorf("GetByID() after delete = %v, %v, want nil, nil", got, err)
	}
}

func TestContentRepositoryFiltersAndLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewContentRepository[models.Newsletter](NewRepository(newTestDB(t).DB))

	for i, published := range []bool{true, false, true, true} {
		n := &models.Newsletter{Item: models.Item{Guild: "latin"}, Title: "Issue", IssueNumber: i + 1, Published: published}
		if err := repo.Create(ctx, n); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	rows, err := repo.List(ctx, "latin", ListOptions{
		Filters: map[string]interface{}{"published": true},
		Order:   []OrderBy{{Column: "issue_number", Desc: true}},
		Limit:   2,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rows) != 2 || rows[0].IssueNumber != 4 || rows[1].IssueNumber != 3 {
		t.Errorf("List() issues = %v", issueNumbers(rows))
	}
}

func TestSpotlightSingleCurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewSpotlightRepository(NewRepository(newTestDB(t).DB))

	a := &models.Spotlight{Item: models.Item{Guild: "pride"}, MemberName: "A", IsCurrent: true}
	b := &models.Spotlight{Item: models.Item{Guild: "pride"}, MemberName: "B"}
	other := &models.Spotlight{Item: models.Item{Guild: "women"}, MemberName: "W", IsCurrent: true}
	for _, s := range []*models.Spotlight{a, b, other} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	b.IsCurrent = true
	if err := repo.Update(ctx, b, []string{"is_current"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	current, err := repo.List(ctx, "pride", ListOptions{Filters: map[string]interface{}{"is_current": true}})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(current) != 1 || current[0].ID != b.ID {
		t.Errorf("current spotlights = %v, want only B", current)
	}

	women, _ := repo.List(ctx, "women", ListOptions{Filters: map[string]interface{}{"is_current": true}})
	if len(women) != 1 {
		t.Errorf("other guild current spotlights = %d, want 1", len(women))
	}

	c := &models.Spotlight{Item: models.Item{Guild: "pride"}, MemberName: "C", IsCurrent: true}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create() current error = %v", err)
	}
	current, _ = repo.List(ctx, "pride", ListOptions{Filters: map[string]interface{}{"is_current": true}})
	if len(current) != 1 || current[0].ID != c.ID {
		t.Errorf("current spotlights after create = %d, want only C", len(current))
	}
}

func TestSpotlightConcurrentCurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewSpotlightRepository(NewRepository(newTestDB(t).DB))

	var rows []*models.Spotlight
	for i := 0; i < 8; i++ {
		s := &models.Spotlight{Item: models.Item{Guild: "black"}, MemberName: "member"}
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		rows = append(rows, s)
	}

	var wg sync.WaitGroup
	for _, s := range rows {
		wg.Add(1)
		go func(s *models.Spotlight) {
			defer wg.Done()
			s.IsCurrent = true
			if err := repo.Update(ctx, s, []string{"is_current"}); err != nil {
				t.Errorf("Update() error = %v", err)
			}
		}(s)
	}
	wg.Wait()

	current, err := repo.List(ctx, "black", ListOptions{Filters: map[string]interface{}{"is_current": true}})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(current) != 1 {
		t.Errorf("current spotlights after concurrent updates = %d, want 1", len(current))
	}
}

func TestContentRepositorySearch(t *testing.T) {
	ctx := context.Background()
	repo := NewContentRepository[models.Announcement](NewRepository(newTestDB(t).DB))

	for _, a := range []*models.Announcement{
		{Item: models.Item{Guild: "black"}, Title: "Stream night", Content: strPtr("Our CHARITY drive starts")},
		{Item: models.Item{Guild: "black"}, Title: "100% fun", Content: strPtr("nothing here")},
		{Item: models.Item{Guild: "women"}, Title: "Charity", Content: strPtr("other guild")},
	} {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tests := []struct {
		term string
		want int
	}{
		{"charity", 1},
		{"Charity", 1},
		{"%", 1},
		{"_", 0},
		{"missing", 0},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			rows, err := repo.Search(ctx, "black", SearchOptions{Columns: []string{"title", "content"}, Term: tt.term, Limit: 5})
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(rows) != tt.want {
				t.Errorf("Search(%q) = %d rows, want %d", tt.term, len(rows), tt.want)
			}
		})
	}
}

func titles(rows []*models.Event) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Title)
	}
	return out
}

func issueNumbers(rows []*models.Newsletter) []int {
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.IssueNumber)
	}
	return out
}
