package guilds

import "sort"

// Colors is the theme palette a guild page renders with
type Colors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	PrimaryRGB string `json:"primaryRgb"`
	AccentRGB  string `json:"accentRgb"`
	Gradient   string `json:"gradient"`
	CardBg     string `json:"cardBg"`
	Dark       string `json:"dark"`
	DarkCard   string `json:"darkCard"`
	Border     string `json:"border"`
	Text       string `json:"text"`
	Text2      string `json:"text2"`
	Muted      string `json:"muted"`
	Glow       string `json:"glow"`
	GlowHover  string `json:"glowHover"`
}

// Guild describes one affinity community
type Guild struct {
	Slug      string   `json:"slug"`
	Name      string   `json:"name"`
	ShortName string   `json:"shortName"`
	Emoji     string   `json:"emoji"`
	Tagline   string   `json:"tagline"`
	Colors    Colors   `json:"colors"`
	ServerID  string   `json:"serverId,omitempty"`
	Roles     []string `json:"roles"`
}

var standardRoles = []string{
	"Guild Member",
	"Twitch Staff",
	"Community Specialist",
	"Visiting Guild Community Specialist",
	"Newsletter Team",
	"Mentor: Event/Project Planning",
}

var catalog = map[string]Guild{
	"women": {
		Slug:      "women",
		Name:      "Women's Unity Guild",
		ShortName: "Women's Guild",
		Emoji:     "💜",
		Tagline:   "Empowering women in the Twitch streaming community",
		ServerID:  "1068660747997024296",
		Roles:     standardRoles,
		Colors: Colors{
			Primary:    "#9146FF",
			Secondary:  "#C084FC",
			Accent:     "#F472B6",
			PrimaryRGB: "145,70,255",
			AccentRGB:  "244,114,182",
			Gradient:   "linear-gradient(135deg, #9146FF 0%, #C084FC 40%, #F472B6 100%)",
			CardBg:     "linear-gradient(145deg, #1a0929 0%, #0d0518 100%)",
			Dark:       "#0E0517",
			DarkCard:   "#1A0929",
			Border:     "rgba(168,85,247,0.2)",
			Text:       "#F5E6FF",
			Text2:      "#C4A8D8",
			Muted:      "#8B6FA0",
			Glow:       "rgba(145,70,255,0.25)",
			GlowHover:  "rgba(145,70,255,0.45)",
		},
	},
	"black": {
		Slug:      "black",
		Name:      "The Black Guild",
		ShortName: "Black Guild",
		Emoji:     "🖤",
		Tagline:   "Celebrating and uplifting Black creators on Twitch",
		ServerID:  "1068660581596401694",
		Roles:     standardRoles,
		Colors: Colors{
			Primary:    "#16a34a",
			Secondary:  "#4ade80",
			Accent:     "#dc2626",
			PrimaryRGB: "22,163,74",
			AccentRGB:  "220,38,38",
			Gradient:   "linear-gradient(135deg, #16a34a 0%, #4ade80 40%, #dc2626 100%)",
			CardBg:     "linear-gradient(145deg, #0a1a0a 0%, #050a05 100%)",
			Dark:       "#050a05",
			DarkCard:   "#0a1a0a",
			Border:     "rgba(22,163,74,0.2)",
			Text:       "#E6FFE6",
			Text2:      "#A8D8A8",
			Muted:      "#6FA06F",
			Glow:       "rgba(22,163,74,0.2)",
			GlowHover:  "rgba(220,38,38,0.35)",
		},
	},
	"latin": {
		Slug:      "latin",
		Name:      "Latin Guild",
		ShortName: "Latin Guild",
		Emoji:     "🧡",
		Tagline:   "Amplifying Latin voices and creators on Twitch",
		ServerID:  "1068660653134454874",
		Roles:     standardRoles,
		Colors: Colors{
			Primary:    "#c2410c",
			Secondary:  "#ea580c",
			Accent:     "#fbbf24",
			PrimaryRGB: "194,65,12",
			AccentRGB:  "251,191,36",
			Gradient:   "linear-gradient(135deg, #c2410c 0%, #ea580c 40%, #fbbf24 100%)",
			CardBg:     "linear-gradient(145deg, #1a0800 0%, #0d0500 100%)",
			Dark:       "#0d0500",
			DarkCard:   "#1a0800",
			Border:     "rgba(234,88,12,0.2)",
			Text:       "#FFF5E6",
			Text2:      "#D8C4A8",
			Muted:      "#A08B6F",
			Glow:       "rgba(234,88,12,0.25)",
			GlowHover:  "rgba(234,88,12,0.45)",
		},
	},
	"pride": {
		Slug:      "pride",
		Name:      "Pride Guild",
		ShortName: "Pride Guild",
		Emoji:     "🌈",
		Tagline:   "Celebrating LGBTQ+ creators and community on Twitch",
		ServerID:  "1237451084449185975",
		Roles:     standardRoles,
		Colors: Colors{
			Primary:    "#e879f9",
			Secondary:  "#a855f7",
			Accent:     "#60a5fa",
			PrimaryRGB: "232,121,249",
			AccentRGB:  "96,165,250",
			Gradient:   "linear-gradient(90deg, #ef4444, #f97316, #facc15, #4ade80, #60a5fa, #a855f7)",
			CardBg:     "linear-gradient(145deg, #0d0d1a 0%, #080810 100%)",
			Dark:       "#080810",
			DarkCard:   "#0d0d1a",
			Border:     "rgba(255,255,255,0.08)",
			Text:       "#F0E6FF",
			Text2:      "#C4B8D8",
			Muted:      "#8B7FA0",
			Glow:       "rgba(168,85,247,0.2)",
			GlowHover:  "rgba(168,85,247,0.35)",
		},
	},
	"ia": {
		Slug:      "ia",
		Name:      "Indigenous Alliance",
		ShortName: "Indigenous Alliance",
		Emoji:     "🪶",
		Tagline:   "Supporting Indigenous creators and voices on Twitch",
		Roles:     standardRoles[:4],
		Colors: Colors{
			Primary:    "#7c3aed",
			Secondary:  "#a78bfa",
			Accent:     "#ffffff",
			PrimaryRGB: "124,58,237",
			AccentRGB:  "167,139,250",
			Gradient:   "linear-gradient(135deg, #7c3aed 0%, #a78bfa 50%, #ffffff 100%)",
			CardBg:     "linear-gradient(145deg, #0d0520 0%, #080315 100%)",
			Dark:       "#080315",
			DarkCard:   "#0d0520",
			Border:     "rgba(124,58,237,0.2)",
			Text:       "#F0E6FF",
			Text2:      "#C4A8D8",
			Muted:      "#8B6FA0",
			Glow:       "rgba(124,58,237,0.25)",
			GlowHover:  "rgba(124,58,237,0.45)",
		},
	},
}

// Get returns the guild for slug
func Get(slug string) (Guild, bool) {
	g, ok := catalog[slug]
	return g, ok
}

// Valid reports whether slug names a known guild
func Valid(slug string) bool {
	_, ok := catalog[slug]
	return ok
}

// Slugs returns every guild slug in sorted order
func Slugs() []string {
	slugs := make([]string, 0, len(catalog))
	for slug := range catalog {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// All returns every guild ordered by slug
func All() []Guild {
	all := make([]Guild, 0, len(catalog))
	for _, slug := range Slugs() {
		all = append(all, catalog[slug])
	}
	return all
}

// LandingGuilds are the guilds with a public newsletter page.
func LandingGuilds() []string {
	return []string{"women", "black", "latin", "pride"}
}

// GameGuilds are the guilds competing in Guildie Games.
func GameGuilds() []string {
	return []string{"women", "black", "latin", "pride", "ia"}
}

// WithServers returns the guilds that have a Discord server, in game order
func WithServers() []Guild {
	var out []Guild
	for _, slug := range GameGuilds() {
		if g := catalog[slug]; g.ServerID != "" {
			out = append(out, g)
		}
	}
	return out
}
