// Package models defines the journal entry shared by the client, the
// on-device mirror and the remote store.
package models

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// LocalIDPrefix marks ids minted on the device while the remote store was
// unreachable. Such entries have never been confirmed by the remote.
const LocalIDPrefix = "local-"

var ErrUnknownCategory = errors.New("unknown category")

// Category is a closed set of tags an entry can carry.
type Category string

const (
	CategoryLandmark Category = "landmark"
	CategoryFood     Category = "food"
	CategoryNature   Category = "nature"
	CategoryCulture  Category = "culture"
	CategoryActivity Category = "activity"
	CategoryOther    Category = "other"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{CategoryLandmark, CategoryFood, CategoryNature, CategoryCulture, CategoryActivity, CategoryOther}
}

func (c Category) Valid() bool {
	for _, k := range Categories() {
		if c == k {
			return true
		}
	}
	return false
}

// ParseCategory accepts a category name in any letter case.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", ErrUnknownCategory
	}
	return c, nil
}

// JournalEntry is a single geo-tagged note. Entries are never edited in
// place: a change is a delete followed by a create.
type JournalEntry struct {
	ID          string    `json:"id" yaml:"id"`
	Latitude    float64   `json:"latitude" yaml:"latitude"`
	Longitude   float64   `json:"longitude" yaml:"longitude"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
	DateDisplay string    `json:"dateDisplay" yaml:"dateDisplay"`
	Note        string    `json:"note" yaml:"note"`
	Category    Category  `json:"category" yaml:"category"`
	// PhotoURL is nil when the entry has no photo. It may hold a data: URL.
	PhotoURL *string `json:"photoUrl" yaml:"photoUrl"`
}

// NewEntry is the create input: a JournalEntry that has no id yet.
type NewEntry struct {
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Timestamp   time.Time `json:"timestamp"`
	DateDisplay string    `json:"dateDisplay"`
	Note        string    `json:"note"`
	Category    Category  `json:"category"`
	PhotoURL    *string   `json:"photoUrl"`
}

// WithID turns the input into a stored entry.
func (n NewEntry) WithID(id string) JournalEntry {
	return JournalEntry{
		ID:          id,
		Latitude:    n.Latitude,
		Longitude:   n.Longitude,
		Timestamp:   n.Timestamp,
		DateDisplay: n.DateDisplay,
		Note:        n.Note,
		Category:    n.Category,
		PhotoURL:    n.PhotoURL,
	}
}

// LocalID mints a device-local id from the given instant.
func LocalID(now time.Time) string {
	return LocalIDPrefix + strconv.FormatInt(now.UnixNano(), 10)
}

// IsLocalID reports whether id was minted by LocalID.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}

// FormatDateDisplay renders t the way entries show it in lists, e.g.
// "Mon, 02 Jan 2006 15:04".
func FormatDateDisplay(t time.Time) string {
	return t.Format("Mon, 02 Jan 2006 15:04")
}

// RemoveByID returns entries without any element whose id equals id.
// Order of the remaining entries is preserved.
func RemoveByID(entries []JournalEntry, id string) []JournalEntry {
	out := make([]JournalEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}
