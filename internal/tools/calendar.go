package tools

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/guestflow/concierge/pkg/models"
)

// Holiday is one named date range in the property's holiday calendar.
type Holiday struct {
	// Name matches against guest phrasing, case-insensitive.
	Name string `yaml:"name"`
	// Start is the first night, YYYY-MM-DD.
	Start string `yaml:"start"`
	// End is the checkout date, YYYY-MM-DD.
	End string `yaml:"end"`
}

// HolidayCalendar maps guest phrases like "over christmas" to date ranges.
type HolidayCalendar struct {
	Holidays []Holiday `yaml:"holidays"`
}

// LoadHolidayCalendar reads a YAML calendar file. A missing file yields an
// empty calendar, not an error.
func LoadHolidayCalendar(path string) (*HolidayCalendar, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &HolidayCalendar{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read holiday calendar: %w", err)
	}

	var cal HolidayCalendar
	if err := yaml.Unmarshal(data, &cal); err != nil {
		return nil, fmt.Errorf("parse holiday calendar %s: %w", path, err)
	}
	return &cal, nil
}

// match returns the holiday whose name appears in the phrase, if any.
func (c *HolidayCalendar) match(phrase string) (Holiday, bool) {
	lower := strings.ToLower(phrase)
	for _, h := range c.Holidays {
		if strings.Contains(lower, strings.ToLower(h.Name)) {
			return h, true
		}
	}
	return Holiday{}, false
}

// DatesTool resolves relative guest phrasing ("next weekend", "over
// christmas") into concrete check-in and check-out dates. Returns a
// structured result with check_in and check_out fields so dependent calls
// can pull the dates by name.
type DatesTool struct {
	calendar *HolidayCalendar
	// now is swappable for tests.
	now func() time.Time
}

// NewDatesTool creates the resolve_dates tool with the given calendar.
func NewDatesTool(calendar *HolidayCalendar) *DatesTool {
	if calendar == nil {
		calendar = &HolidayCalendar{}
	}
	return &DatesTool{calendar: calendar, now: time.Now}
}

// Name returns the registry key.
func (t *DatesTool) Name() string { return "resolve_dates" }

// Schema describes the accepted arguments.
func (t *DatesTool) Schema() Schema {
	return Schema{
		"phrase": {Type: ArgString, Required: true, Description: "guest phrasing for the stay dates, e.g. 'next weekend'"},
		"nights": {Type: ArgInt, Description: "stay length override in nights"},
	}
}

// Call resolves the phrase to dates.
func (t *DatesTool) Call(ctx context.Context, args map[string]any) (models.ToolResult, error) {
	phrase := StringArg(args, "phrase")
	nights := IntArg(args, "nights", 0)

	checkIn, checkOut, err := t.resolve(phrase, nights)
	if err != nil {
		return models.ToolResult{}, err
	}
	return models.StructuredResult(map[string]any{
		"check_in":  checkIn,
		"check_out": checkOut,
	}), nil
}

func (t *DatesTool) resolve(phrase string, nights int) (string, string, error) {
	if h, ok := t.calendar.match(phrase); ok {
		if nights > 0 {
			start, err := time.Parse("2006-01-02", h.Start)
			if err != nil {
				return "", "", fmt.Errorf("holiday %q has bad start date: %w", h.Name, err)
			}
			return h.Start, start.AddDate(0, 0, nights).Format("2006-01-02"), nil
		}
		return h.Start, h.End, nil
	}

	lower := strings.ToLower(phrase)
	today := t.now().Truncate(24 * time.Hour)

	var start time.Time
	switch {
	case strings.Contains(lower, "tonight"), strings.Contains(lower, "today"):
		start = today
	case strings.Contains(lower, "tomorrow"):
		start = today.AddDate(0, 0, 1)
	case strings.Contains(lower, "weekend"):
		start = nextWeekday(today, time.Friday)
		if strings.Contains(lower, "next") && start.Sub(today) < 3*24*time.Hour {
			start = start.AddDate(0, 0, 7)
		}
		if nights == 0 {
			nights = 2
		}
	case strings.Contains(lower, "next week"):
		start = nextWeekday(today, time.Monday)
	default:
		// Explicit dates pass through unresolved.
		if in, err := time.Parse("2006-01-02", strings.TrimSpace(phrase)); err == nil {
			start = in
		} else {
			return "", "", fmt.Errorf("cannot resolve dates from %q", phrase)
		}
	}

	if nights <= 0 {
		nights = 1
	}
	return start.Format("2006-01-02"), start.AddDate(0, 0, nights).Format("2006-01-02"), nil
}

// nextWeekday returns the next occurrence of the weekday strictly after or
// on tomorrow.
func nextWeekday(from time.Time, day time.Weekday) time.Time {
	d := from.AddDate(0, 0, 1)
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
