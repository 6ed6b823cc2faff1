package content

import (
	"github.com/unityguilds/hub/internal/db"
)

// FilterKind is how a filter query parameter is parsed
type FilterKind int

// Filter kinds
const (
	FilterString FilterKind = iota
	FilterBool
	FilterInt
)

// Collection describes the request-facing rules of one content collection
type Collection struct {
	Name string
	// Updatable columns may appear in an update body; everything else is ignored.
	Updatable map[string]bool
	// Nullable columns accept an explicit null.
	Nullable map[string]bool
	// DateColumns must hold an ISO date (YYYY-MM-DD) when written.
	DateColumns  map[string]bool
	Orderable    map[string]bool
	Filterable   map[string]FilterKind
	DefaultOrder []db.OrderBy
	// SearchColumns are matched by the search aggregator.
	SearchColumns []string
	// SearchFilters restrict which rows are searchable.
	SearchFilters map[string]interface{}
}

func set(cols ...string) map[string]bool {
	m := make(map[string]bool, len(cols))
	for _, c := range cols {
		m[c] = true
	}
	return m
}

// Collection names as they appear in URLs
const (
	Newsletters   = "newsletters"
	Events        = "events"
	Announcements = "announcements"
	Spotlights    = "spotlight"
	Recaps        = "recaps"
	Highlights    = "highlights"
)

// Names lists the collections in display order
var Names = []string{Newsletters, Events, Announcements, Spotlights, Recaps, Highlights}

var collections = map[string]Collection{
	Newsletters: {
		Name:        Newsletters,
		Updatable:   set("title", "content", "excerpt", "issue_number", "published"),
		Nullable:    set("excerpt"),
		DateColumns: set(),
		Orderable:   set("created_at", "updated_at", "issue_number", "published_at", "title"),
		Filterable: map[string]FilterKind{
			"published":    FilterBool,
			"issue_number": FilterInt,
		},
		DefaultOrder:  []db.OrderBy{{Column: "created_at", Desc: true}},
		SearchColumns: []string{"title", "content"},
		SearchFilters: map[string]interface{}{"published": true},
	},
	Events: {
		Name:        Events,
		Updatable:   set("title", "description", "event_date", "event_time", "location"),
		Nullable:    set("description", "event_time", "location"),
		DateColumns: set("event_date"),
		Orderable:   set("event_date", "created_at", "title"),
		Filterable: map[string]FilterKind{
			"event_date": FilterString,
		},
		DefaultOrder:  []db.OrderBy{{Column: "event_date"}},
		SearchColumns: []string{"title", "description"},
	},
	Announcements: {
		Name:        Announcements,
		Updatable:   set("title", "content", "icon", "pinned"),
		Nullable:    set("content", "icon"),
		DateColumns: set(),
		Orderable:   set("pinned", "created_at", "title"),
		Filterable: map[string]FilterKind{
			"pinned": FilterBool,
		},
		DefaultOrder:  []db.OrderBy{{Column: "pinned", Desc: true}, {Column: "created_at", Desc: true}},
		SearchColumns: []string{"title", "content"},
	},
	Spotlights: {
		Name: Spotlights,
		Updatable: set("member_name", "member_handle", "member_avatar", "bio",
			"twitch_url", "achievement", "featured_week", "is_current"),
		Nullable: set("member_handle", "member_avatar", "bio",
			"twitch_url", "achievement", "featured_week"),
		DateColumns: set(),
		Orderable:   set("created_at", "member_name", "featured_week"),
		Filterable: map[string]FilterKind{
			"is_current": FilterBool,
		},
		DefaultOrder:  []db.OrderBy{{Column: "created_at", Desc: true}},
		SearchColumns: []string{"member_name", "bio"},
	},
	Recaps: {
		Name:        Recaps,
		Updatable:   set("title", "content", "summary", "meeting_date", "topics"),
		Nullable:    set("content", "summary", "meeting_date", "topics"),
		DateColumns: set("meeting_date"),
		Orderable:   set("meeting_date", "created_at", "title"),
		Filterable: map[string]FilterKind{
			"meeting_date": FilterString,
		},
		DefaultOrder:  []db.OrderBy{{Column: "meeting_date", Desc: true}},
		SearchColumns: []string{"title", "content"},
	},
	Highlights: {
		Name:        Highlights,
		Updatable:   set("title", "description", "event_type", "image_url", "event_date"),
		Nullable:    set("description", "event_type", "image_url", "event_date"),
		DateColumns: set("event_date"),
		Orderable:   set("event_date", "created_at", "title"),
		Filterable: map[string]FilterKind{
			"event_type": FilterString,
		},
		DefaultOrder:  []db.OrderBy{{Column: "event_date", Desc: true}},
		SearchColumns: []string{"title", "description"},
	},
}

// Lookup returns the named collection
func Lookup(name string) (Collection, bool) {
	c, ok := collections[name]
	return c, ok
}
