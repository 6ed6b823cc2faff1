package content

import (
	"context"
	"reflect"
	"testing"

	"github.com/unityguilds/hub/internal/apperr"
	"github.com/unityguilds/hub/internal/auth"
	"github.com/unityguilds/hub/internal/db"
	"github.com/unityguilds/hub/internal/models"
	"github.com/unityguilds/hub/internal/sections"
	"github.com/unityguilds/hub/pkg/config"
)

func newTestSettings(t *testing.T) *SettingsService {
	t.Helper()
	database, err := db.New(&config.DatabaseConfig{Driver: "sqlite", URL: ":memory:"}, "ERROR")
	if err != nil {
		t.Fatalf("db.New() error = %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewSettingsService(db.NewSettingsRepository(db.NewRepository(database.DB)), nil)
}

func TestSettingsDefaults(t *testing.T) {
	svc := newTestSettings(t)

	got, err := svc.Get(context.Background(), "pride")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Stored {
		t.Error("Get() on an empty store reported stored settings")
	}
	if got.ThemeColors["primary"] == "" || got.ThemeColors["primary"] == nil {
		t.Errorf("Get() theme colors = %v, want catalog palette", got.ThemeColors)
	}
	if !reflect.DeepEqual(got.SectionOrder, sections.DefaultOrder()) {
		t.Errorf("Get() order = %v, want catalog order", got.SectionOrder)
	}
	for id, visible := range got.SectionVisibility {
		if !visible {
			t.Errorf("default section %s hidden", id)
		}
	}
	if got.TwitchChannels == nil {
		t.Error("Get() twitch channels should be an empty list")
	}

	for _, guild := range []string{"", "nowhere"} {
		if _, err := svc.Get(context.Background(), guild); !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("Get(%q) error = %v, want validation", guild, err)
		}
	}
}

func TestSettingsPut(t *testing.T) {
	svc := newTestSettings(t)
	ctx := context.Background()
	owner := &auth.Session{DiscordID: "cs", Guild: "latin", Role: models.RoleCommunitySpecialist}

	tests := []struct {
		name    string
		session *auth.Session
		body    string
		want    apperr.Kind
	}{
		{"no session", nil, `{"guild":"latin","custom_css":"a{}"}`, apperr.KindAuthentication},
		{"no guild", owner, `{"custom_css":"a{}"}`, apperr.KindValidation},
		{"other guild", owner, `{"guild":"women","custom_css":"a{}"}`, apperr.KindForbidden},
		{"null order", owner, `{"guild":"latin","section_order":null}`, apperr.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Put(ctx, tt.session, []byte(tt.body)); apperr.KindOf(err) != tt.want || err == nil {
				t.Errorf("Put() error = %v, want kind %v", err, tt.want)
			}
		})
	}

	_, err := svc.Put(ctx, owner, []byte(`{"guild":"latin","section_order":["events","home","podcast"],"section_visibility":{"streams":false},"twitch_channels":[" @RedHawk ","redhawk",""]}`))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// second write touches only heading_font
	got, err := svc.Put(ctx, owner, []byte(`{"guild":"latin","heading_font":"Poppins"}`))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if !got.Stored || got.HeadingFont == nil || *got.HeadingFont != "Poppins" {
		t.Errorf("Put() = %+v", got)
	}

	got, err = svc.Get(ctx, "latin")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.SectionOrder[0] != "events" || got.SectionOrder[1] != "home" || len(got.SectionOrder) != len(sections.Catalog) {
		t.Errorf("Get() order = %v", got.SectionOrder)
	}
	if got.SectionVisibility["streams"] || !got.SectionVisibility["home"] {
		t.Errorf("Get() visibility = %v", got.SectionVisibility)
	}
	if !reflect.DeepEqual(got.TwitchChannels, []string{"RedHawk"}) {
		t.Errorf("Get() twitch channels = %v", got.TwitchChannels)
	}
	if got.HeadingFont == nil || *got.HeadingFont != "Poppins" {
		t.Errorf("Get() heading font = %v", got.HeadingFont)
	}
}
