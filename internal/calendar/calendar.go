// Package calendar builds add-to-calendar links and iCalendar files for events.
package calendar

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	ics "github.com/arran4/golang-ical"

	"github.com/unityguilds/hub/internal/apperr"
	"github.com/unityguilds/hub/internal/models"
)

const (
	// ProductID identifies generated calendars
	ProductID = "-//Unity Guilds//Events//EN"
	// Duration is the length assumed for every event
	Duration = 2 * time.Hour

	defaultHour   = 19
	googleLayout  = "20060102T150405Z"
	outlookLayout = "2006-01-02T15:04:05"
)

var timePattern = regexp.MustCompile(`(?i)(\d{1,2}):?(\d{2})?\s*(AM|PM)?`)

// Links are the export targets for one event
type Links struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Google   string    `json:"google"`
	Outlook  string    `json:"outlook"`
	ICS      string    `json:"ics"`
	FileName string    `json:"file_name"`
}

// ParseTime reads the first "H[:MM] [AM|PM]" in s. Anything unparsable is 19:00.
func ParseTime(s string) (hour, minute int) {
	m := timePattern.FindStringSubmatch(s)
	if m == nil {
		return defaultHour, 0
	}
	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	switch strings.ToUpper(m[3]) {
	case "PM":
		if hour < 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 || minute > 59 {
		return defaultHour, 0
	}
	return hour, minute
}

// Window returns the start and end of an event dated date at eventTime in loc
func Window(date string, eventTime *string, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("event_date must be formatted YYYY-MM-DD")
	}

	hour, minute := defaultHour, 0
	if eventTime != nil && strings.TrimSpace(*eventTime) != "" {
		hour, minute = ParseTime(*eventTime)
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
	return start, start.Add(Duration), nil
}

// For builds the export links of ev, interpreting its wall-clock time in loc
func For(ev *models.Event, loc *time.Location, icsURL string) (*Links, error) {
	start, end, err := Window(ev.EventDate, ev.EventTime, loc)
	if err != nil {
		return nil, err
	}

	title := ev.Title
	if title == "" {
		title = "Event"
	}
	description, location := deref(ev.Description), deref(ev.Location)

	google := url.Values{}
	google.Set("action", "TEMPLATE")
	google.Set("text", title)
	google.Set("dates", start.UTC().Format(googleLayout)+"/"+end.UTC().Format(googleLayout))
	google.Set("details", description)
	google.Set("location", location)

	outlook := url.Values{}
	outlook.Set("subject", title)
	outlook.Set("startdt", start.Format(outlookLayout))
	outlook.Set("enddt", end.Format(outlookLayout))
	outlook.Set("body", description)
	outlook.Set("location", location)

	return &Links{
		Start:    start,
		End:      end,
		Google:   "https://calendar.google.com/calendar/render?" + google.Encode(),
		Outlook:  "https://outlook.live.com/calendar/0/deeplink/compose?" + outlook.Encode(),
		ICS:      icsURL,
		FileName: FileName(ev.Title),
	}, nil
}

// ICS renders ev as a single-event iCalendar document
func ICS(ev *models.Event, loc *time.Location, now time.Time) (string, error) {
	start, end, err := Window(ev.EventDate, ev.EventTime, loc)
	if err != nil {
		return "", err
	}

	title := ev.Title
	if title == "" {
		title = "Event"
	}

	cal := ics.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetMethod(ics.MethodPublish)

	event := cal.AddEvent(fmt.Sprintf("%s@unityguilds", ev.ID))
	event.SetDtStampTime(now)
	event.SetStartAt(start)
	event.SetEndAt(end)
	event.SetSummary(title)
	if d := deref(ev.Description); d != "" {
		event.SetDescription(d)
	}
	if l := deref(ev.Location); l != "" {
		event.SetLocation(l)
	}
	return cal.Serialize(), nil
}

// FileName is the download name for an event's .ics file
func FileName(title string) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			return r
		}
		return -1
	}, strings.ToLower(strings.Join(strings.Fields(title), "-")))
	if name == "" {
		name = "event"
	}
	return name + ".ics"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
