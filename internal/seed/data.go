package seed

import (
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/unityguilds/hub/internal/guilds"
	"github.com/unityguilds/hub/internal/models"
)

func strPtr(s string) *string { return &s }

func newsletters(g guilds.Guild) []*models.Newsletter {
	published := time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)
	earlier := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	return []*models.Newsletter{
		{
			Item:  models.Item{Guild: g.Slug},
			Title: fmt.Sprintf("%s Weekly Digest #3", g.Name),
			Content: fmt.Sprintf("# Welcome to Issue #3!\n\nHappy Thursday, %s family! "+
				"This week our community crossed **500 active members**.\n\n"+
				"- Three members hit Partner status\n"+
				"- The charity stream raised over $2,400\n\n"+
				"See you in the streams! %s\n", g.Name, g.Emoji),
			Excerpt:     strPtr("500 active members, 3 new Partners and a charity stream success."),
			IssueNumber: 3,
			Published:   true,
			PublishedAt: &published,
		},
		{
			Item:        models.Item{Guild: g.Slug},
			Title:       fmt.Sprintf("%s Weekly Digest #2", g.Name),
			Content:     "# February Momentum\n\nFebruary is shaping up to be our best month yet.\n",
			Excerpt:     strPtr("Stream statistics and February plans."),
			IssueNumber: 2,
			Published:   true,
			PublishedAt: &earlier,
		},
		{
			Item:        models.Item{Guild: g.Slug},
			Title:       fmt.Sprintf("%s Weekly Digest #4 (draft)", g.Name),
			Content:     "# Coming soon\n",
			IssueNumber: 4,
		},
	}
}

func events(g guilds.Guild) []*models.Event {
	return []*models.Event{
		{
			Item:        models.Item{Guild: g.Slug},
			Title:       "Guild Hall Meeting",
			Description: strPtr("Spring content calendar and community votes."),
			EventDate:   "2026-03-15",
			EventTime:   strPtr("7:00 PM"),
			Location:    strPtr("Discord Stage"),
		},
		{
			Item:        models.Item{Guild: g.Slug},
			Title:       "Community Game Night",
			Description: strPtr(fmt.Sprintf("Open lobby for every %s member.", g.ShortName)),
			EventDate:   "2026-03-22",
			EventTime:   strPtr("8:30 PM"),
			Location:    strPtr("Twitch"),
		},
	}
}

func announcements(g guilds.Guild) []*models.Announcement {
	return []*models.Announcement{
		{
			Item:    models.Item{Guild: g.Slug},
			Title:   "Welcome to the new guild hub",
			Content: strPtr("Newsletters, events and spotlights now live in one place."),
			Icon:    strPtr(g.Emoji),
			Pinned:  true,
		},
		{
			Item:    models.Item{Guild: g.Slug},
			Title:   "Raid train sign-ups open",
			Content: strPtr("Add your stream slot in the raid-train channel."),
			Icon:    strPtr("🚂"),
		},
	}
}

func spotlights(g guilds.Guild) []*models.Spotlight {
	return []*models.Spotlight{
		{
			Item:         models.Item{Guild: g.Slug},
			MemberName:   "Nova Skye",
			MemberHandle: strPtr("novaskye"),
			Bio:          strPtr("Variety streamer who went from 0 to 1,000 followers in three months."),
			TwitchURL:    strPtr("https://twitch.tv/novaskye"),
			Achievement:  strPtr("Reached Partner"),
			FeaturedWeek: strPtr("2026-W09"),
			IsCurrent:    true,
		},
		{
			Item:         models.Item{Guild: g.Slug},
			MemberName:   "Rio Vale",
			MemberHandle: strPtr("riovale"),
			Bio:          strPtr("Cozy games and late-night art streams."),
			FeaturedWeek: strPtr("2026-W08"),
		},
	}
}

func recaps(g guilds.Guild) []*models.Recap {
	return []*models.Recap{
		{
			Item:        models.Item{Guild: g.Slug},
			Title:       "February Guild Hall",
			Summary:     strPtr("Voted on spring initiatives and the next charity stream."),
			Content:     strPtr("Attendance was the highest yet. Action items are in the pinned thread."),
			MeetingDate: strPtr("2026-02-15"),
			Topics:      datatypes.JSONSlice[string]{"Spring calendar", "Charity stream", "Mentorship"},
		},
	}
}

func highlights(g guilds.Guild) []*models.Highlight {
	return []*models.Highlight{
		{
			Item:        models.Item{Guild: g.Slug},
			Title:       "500 active members",
			Description: strPtr(fmt.Sprintf("%s crossed 500 active members.", g.Name)),
			EventType:   strPtr("milestone"),
			EventDate:   strPtr("2026-02-24"),
		},
		{
			Item:        models.Item{Guild: g.Slug},
			Title:       "Charity stream",
			Description: strPtr("Raised over $2,400 in one evening."),
			EventType:   strPtr("charity"),
			EventDate:   strPtr("2026-02-10"),
		},
	}
}
