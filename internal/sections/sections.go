package sections

// Section is one named area of a guild page
type Section struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Icon    string `json:"icon"`
	Visible bool   `json:"visible"`
}

// Catalog lists every known section in canonical order
var Catalog = []Section{
	{ID: "home", Label: "Home", Icon: "🏠"},
	{ID: "newsletter", Label: "Newsletter", Icon: "📰"},
	{ID: "archive", Label: "Archive", Icon: "📚"},
	{ID: "announcements", Label: "Announcements", Icon: "📣"},
	{ID: "events", Label: "Events", Icon: "📅"},
	{ID: "spotlight", Label: "Guildie Spotlight", Icon: "✨"},
	{ID: "recaps", Label: "Guild Hall Recaps", Icon: "🏛️"},
	{ID: "highlights", Label: "Guild Highlights", Icon: "🌟"},
	{ID: "streams", Label: "Live Streams", Icon: "🎮"},
}

var catalogIndex = func() map[string]int {
	m := make(map[string]int, len(Catalog))
	for i, s := range Catalog {
		m[s.ID] = i
	}
	return m
}()

// Known reports whether id is in the catalog
func Known(id string) bool {
	_, ok := catalogIndex[id]
	return ok
}

// DefaultOrder returns the catalog ids in canonical order
func DefaultOrder() []string {
	ids := make([]string, len(Catalog))
	for i, s := range Catalog {
		ids[i] = s.ID
	}
	return ids
}

// Load merges a saved order and visibility map with the catalog.
// Saved ids come first, unknown and repeated ids are dropped, and catalog ids
// missing from the saved order are appended in catalog order. A section is
// visible unless visibility maps it to false. Hidden sections are kept.
func Load(order []string, visibility map[string]bool) []Section {
	out := make([]Section, 0, len(Catalog))
	seen := make(map[string]bool, len(Catalog))

	add := func(id string) {
		s := Catalog[catalogIndex[id]]
		s.Visible = true
		if v, ok := visibility[id]; ok && !v {
			s.Visible = false
		}
		out = append(out, s)
		seen[id] = true
	}

	for _, id := range order {
		if !Known(id) || seen[id] {
			continue
		}
		add(id)
	}
	for _, s := range Catalog {
		if !seen[s.ID] {
			add(s.ID)
		}
	}
	return out
}

// Navigation returns only the visible sections, in order
func Navigation(sections []Section) []Section {
	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		if s.Visible {
			out = append(out, s)
		}
	}
	return out
}

// Move removes sourceID and reinserts it at targetID's position.
// Unknown ids or sourceID == targetID leave the order unchanged.
func Move(sections []Section, sourceID, targetID string) []Section {
	from, to := indexOf(sections, sourceID), indexOf(sections, targetID)
	out := make([]Section, len(sections))
	copy(out, sections)
	if from < 0 || to < 0 || from == to {
		return out
	}

	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]Section{moved}, out[to:]...)...)
	return out
}

// Toggle flips the visibility of id
func Toggle(sections []Section, id string) []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	if i := indexOf(out, id); i >= 0 {
		out[i].Visible = !out[i].Visible
	}
	return out
}

// Persisted splits sections into the stored order and visibility map
func Persisted(sections []Section) ([]string, map[string]bool) {
	order := make([]string, len(sections))
	visibility := make(map[string]bool, len(sections))
	for i, s := range sections {
		order[i] = s.ID
		visibility[s.ID] = s.Visible
	}
	return order, visibility
}

func indexOf(sections []Section, id string) int {
	for i, s := range sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}
