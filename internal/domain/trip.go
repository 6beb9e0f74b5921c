// Package domain contains the core data types for the packing-list API.
// This package has no dependencies beyond uuid and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is the top-level aggregate. Items, categories, tags and the weather
// snapshot are embedded in the trip document and have no existence outside it.
type Trip struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Destination string    `json:"destination"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Items       []Item    `json:"items"`
	Categories  []string  `json:"categories"`
	Tags        []string  `json:"tags"`
	Weather     *Weather  `json:"weather,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Days returns the number of whole days between the start and end date.
func (t Trip) Days() int {
	return int(t.EndDate.Sub(t.StartDate).Hours() / 24)
}

// ItemByID returns the index of the item with the given ID, or -1.
func (t Trip) ItemByID(id uuid.UUID) int {
	for i, it := range t.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// TripPatch carries the fields of a partial trip update.
// Nil fields are left unchanged.
type TripPatch struct {
	Name        *string
	Destination *string
	StartDate   *time.Time
	EndDate     *time.Time
	Tags        *[]string
}

// DefaultCategories is the category list every new trip starts with.
func DefaultCategories() []string {
	return []string{"Clothes", "Toiletries", "Electronics", "Miscellaneous"}
}

// DefaultTags is the tag list every new trip starts with.
func DefaultTags() []string {
	return []string{"travel"}
}

// TripInput describes a trip to create. Categories are never supplied by the
// caller: every trip starts with DefaultCategories plus any category its
// initial items reference.
type TripInput struct {
	Name        string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Items       []ItemInput
	Tags        []string
}
