package domain

import "time"

// Entry is a single persisted note.
type Entry struct {
	// ID is assigned by the store on insert and never reused.
	ID int64

	// Body is the note text.
	Body string

	// Timestamp is the creation time in epoch milliseconds.
	// Updates keep the original value.
	Timestamp int64
}

// Time returns the creation time in the local zone.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Title returns the first line of the body, used in listings.
func (e Entry) Title() string {
	for i, r := range e.Body {
		if r == '\n' || r == '\r' {
			return e.Body[:i]
		}
	}
	return e.Body
}

// EntryQuery selects entries for listing.
// The zero value lists everything, newest first.
type EntryQuery struct {
	// Search restricts results to bodies containing this substring.
	Search string

	// Limit caps the number of results. Zero means no limit.
	Limit int `validate:"gte=0"`

	// Offset skips results. Requires Limit.
	Offset int `validate:"gte=0,excluded_without=Limit"`

	// Oldest reverses the order to oldest first.
	Oldest bool
}

// Timestamp converts t to the epoch-millisecond form stored with entries.
func Timestamp(t time.Time) int64 {
	return t.UnixMilli()
}
