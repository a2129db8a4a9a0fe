package model

import "time"

// Event is the canonical representation of a calendar-worthy event as
// returned by the EventHub API. The same shape is used for scrape
// previews (not yet saved) and for entries in the user's saved list.
type Event struct {
	// ID is the server-assigned identifier for this event.
	ID int64 `json:"id"`

	// Title is the human-readable event name.
	Title string `json:"title"`

	// StartTime is when the event begins. Nil when the scraper could
	// not extract a date from the source page.
	StartTime *time.Time `json:"startTime,omitempty"`

	// URL is the original event page this event was scraped from.
	URL string `json:"url"`

	// ImageURL is an optional poster or banner image.
	ImageURL string `json:"imageUrl,omitempty"`

	// Venue is the optional location the event takes place at.
	Venue *Venue `json:"venue,omitempty"`
}

// Venue is the location of an event.
type Venue struct {
	Name string `json:"name"`
	City string `json:"city,omitempty"`
}

// VenueLine returns a single display line for the event's venue, or
// an empty string when no venue is known.
func (e Event) VenueLine() string {
	if e.Venue == nil || e.Venue.Name == "" {
		return ""
	}
	if e.Venue.City != "" {
		return e.Venue.Name + ", " + e.Venue.City
	}
	return e.Venue.Name
}

// HasStart reports whether the event has a known start time. Events
// without one never appear on the calendar.
func (e Event) HasStart() bool {
	return e.StartTime != nil
}
