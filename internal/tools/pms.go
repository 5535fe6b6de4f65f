package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/guestflow/concierge/pkg/models"
)

// Room is one bookable room category in the property management system.
type Room struct {
	// Category is the room type key, e.g. "standard" or "suite".
	Category string
	// Name is the guest-facing room name.
	Name string
	// Capacity is the maximum number of guests.
	Capacity int
	// NightlyRate is the rate in whole currency units.
	NightlyRate int
	// Count is how many rooms of this category the property has.
	Count int
}

// PMS is an in-memory property management system backing the availability
// and room tools. Bookings reduce availability per category and date.
type PMS struct {
	mu sync.RWMutex
	// rooms is keyed by category.
	rooms map[string]Room
	// booked counts bookings per "category|date" key.
	booked map[string]int
}

// NewPMS creates a PMS seeded with a default room inventory.
func NewPMS() *PMS {
	p := &PMS{
		rooms:  make(map[string]Room),
		booked: make(map[string]int),
	}
	for _, r := range defaultInventory() {
		p.rooms[r.Category] = r
	}
	return p
}

func defaultInventory() []Room {
	return []Room{
		{Category: "standard", Name: "Standard Queen", Capacity: 2, NightlyRate: 140, Count: 20},
		{Category: "deluxe", Name: "Deluxe King", Capacity: 2, NightlyRate: 210, Count: 10},
		{Category: "family", Name: "Family Room", Capacity: 4, NightlyRate: 260, Count: 6},
		{Category: "suite", Name: "Harbour Suite", Capacity: 3, NightlyRate: 420, Count: 3},
	}
}

// Book records a booking for a category across [checkIn, checkOut).
func (p *PMS) Book(category, checkIn, checkOut string) error {
	nights, err := nightsBetween(checkIn, checkOut)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	room, ok := p.rooms[category]
	if !ok {
		return fmt.Errorf("unknown room category %q", category)
	}
	for _, d := range nights {
		if p.booked[category+"|"+d] >= room.Count {
			return fmt.Errorf("no %s rooms left on %s", category, d)
		}
	}
	for _, d := range nights {
		p.booked[category+"|"+d]++
	}
	return nil
}

// free returns remaining rooms of a category on a date. Callers hold p.mu.
func (p *PMS) free(category, date string) int {
	room := p.rooms[category]
	return room.Count - p.booked[category+"|"+date]
}

func nightsBetween(checkIn, checkOut string) ([]string, error) {
	in, err := time.Parse("2006-01-02", checkIn)
	if err != nil {
		return nil, fmt.Errorf("bad check_in date %q: want YYYY-MM-DD", checkIn)
	}
	out, err := time.Parse("2006-01-02", checkOut)
	if err != nil {
		return nil, fmt.Errorf("bad check_out date %q: want YYYY-MM-DD", checkOut)
	}
	if !out.After(in) {
		return nil, fmt.Errorf("check_out %s must be after check_in %s", checkOut, checkIn)
	}

	var nights []string
	for d := in; d.Before(out); d = d.AddDate(0, 0, 1) {
		nights = append(nights, d.Format("2006-01-02"))
	}
	return nights, nil
}

// AvailabilityTool answers availability queries against the PMS. Returns a
// listing result; an empty listing means no rooms fit the stay.
type AvailabilityTool struct {
	pms *PMS
}

// NewAvailabilityTool creates the check_availability tool.
func NewAvailabilityTool(pms *PMS) *AvailabilityTool {
	return &AvailabilityTool{pms: pms}
}

// Name returns the registry key.
func (t *AvailabilityTool) Name() string { return "check_availability" }

// Schema describes the accepted arguments.
func (t *AvailabilityTool) Schema() Schema {
	return Schema{
		"check_in":  {Type: ArgString, Required: true, Description: "check-in date, YYYY-MM-DD"},
		"check_out": {Type: ArgString, Required: true, Description: "check-out date, YYYY-MM-DD"},
		"guests":    {Type: ArgInt, Description: "number of guests, default 2"},
	}
}

// Call lists room categories with a free room on every night of the stay
// and enough capacity for the party.
func (t *AvailabilityTool) Call(ctx context.Context, args map[string]any) (models.ToolResult, error) {
	checkIn := StringArg(args, "check_in")
	checkOut := StringArg(args, "check_out")
	guests := IntArg(args, "guests", 2)

	nights, err := nightsBetween(checkIn, checkOut)
	if err != nil {
		return models.ToolResult{}, err
	}

	t.pms.mu.RLock()
	defer t.pms.mu.RUnlock()

	var options []map[string]any
	for _, room := range t.pms.rooms {
		if room.Capacity < guests {
			continue
		}
		available := true
		for _, d := range nights {
			if t.pms.free(room.Category, d) <= 0 {
				available = false
				break
			}
		}
		if !available {
			continue
		}
		options = append(options, map[string]any{
			"category":     room.Category,
			"name":         room.Name,
			"nightly_rate": room.NightlyRate,
			"total":        room.NightlyRate * len(nights),
			"check_in":     checkIn,
			"check_out":    checkOut,
		})
	}
	return models.ListingResult(options), nil
}

// RoomsTool lists the property's room categories, optionally filtered.
type RoomsTool struct {
	pms *PMS
}

// NewRoomsTool creates the get_rooms tool.
func NewRoomsTool(pms *PMS) *RoomsTool {
	return &RoomsTool{pms: pms}
}

// Name returns the registry key.
func (t *RoomsTool) Name() string { return "get_rooms" }

// Schema describes the accepted arguments.
func (t *RoomsTool) Schema() Schema {
	return Schema{
		"category": {Type: ArgString, Description: "filter to one room category"},
		"guests":   {Type: ArgInt, Description: "filter to rooms sleeping at least this many"},
	}
}

// Call lists room categories as a listing result.
func (t *RoomsTool) Call(ctx context.Context, args map[string]any) (models.ToolResult, error) {
	category := strings.ToLower(StringArg(args, "category"))
	guests := IntArg(args, "guests", 0)

	t.pms.mu.RLock()
	defer t.pms.mu.RUnlock()

	var options []map[string]any
	for _, room := range t.pms.rooms {
		if category != "" && room.Category != category {
			continue
		}
		if guests > 0 && room.Capacity < guests {
			continue
		}
		options = append(options, map[string]any{
			"category":     room.Category,
			"name":         room.Name,
			"capacity":     room.Capacity,
			"nightly_rate": room.NightlyRate,
		})
	}
	return models.ListingResult(options), nil
}
