// Package schedule splits shows into past and upcoming relative to a reference instant.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"ms-booking/internal/models"
)

// Policy decides where a show starting exactly at the reference instant lands.
type Policy int

const (
	// BoundaryUpcoming puts a show at the reference instant in Upcoming only.
	BoundaryUpcoming Policy = iota
	// BoundaryBoth puts a show at the reference instant in both partitions.
	BoundaryBoth
)

func (p Policy) String() string {
	switch p {
	case BoundaryBoth:
		return "both"
	default:
		return "upcoming"
	}
}

// ParsePolicy accepts "upcoming" or "both". Empty means BoundaryUpcoming.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "upcoming":
		return BoundaryUpcoming, nil
	case "both":
		return BoundaryBoth, nil
	default:
		return BoundaryUpcoming, fmt.Errorf("unknown boundary policy %q", s)
	}
}

// ReferenceInstant is 00:00 of now's calendar day in loc.
func ReferenceInstant(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

type Partition struct {
	Past     []models.Show
	Upcoming []models.Show
}

func (p Partition) PastCount() int     { return len(p.Past) }
func (p Partition) UpcomingCount() int { return len(p.Upcoming) }

// Classify keeps the input order inside each partition. Both slices are non-nil.
func Classify(shows []models.Show, ref time.Time, policy Policy) Partition {
	part := Partition{
		Past:     []models.Show{},
		Upcoming: []models.Show{},
	}
	for _, s := range shows {
		if IsUpcoming(s.StartTime, ref, policy) {
			part.Upcoming = append(part.Upcoming, s)
		}
		if IsPast(s.StartTime, ref, policy) {
			part.Past = append(part.Past, s)
		}
	}
	return part
}

func IsUpcoming(start, ref time.Time, _ Policy) bool {
	return !start.Before(ref)
}

func IsPast(start, ref time.Time, policy Policy) bool {
	if policy == BoundaryBoth {
		return !start.After(ref)
	}
	return start.Before(ref)
}

// CountUpcoming returns the number of upcoming shows per key.
func CountUpcoming(shows []models.Show, ref time.Time, policy Policy, key func(models.Show) int64) map[int64]int {
	counts := make(map[int64]int)
	for _, s := range shows {
		if IsUpcoming(s.StartTime, ref, policy) {
			counts[key(s)]++
		}
	}
	return counts
}

func ByVenue(s models.Show) int64  { return s.VenueID }
func ByArtist(s models.Show) int64 { return s.ArtistID }
