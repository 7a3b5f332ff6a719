package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeletionBlockedErrorUnwrapsToConflict(t *testing.T) {
	err := fmt.Errorf("delete venue: %w", &DeletionBlockedError{
		Resource:   "venue",
		ID:         3,
		References: map[string]int64{"shows": 2},
	})

	assert.True(t, errors.Is(err, ErrConflict))

	var blocked *DeletionBlockedError
	assert.True(t, errors.As(err, &blocked))
	assert.Equal(t, int64(2), blocked.References["shows"])
	assert.Contains(t, err.Error(), "cannot delete venue 3: referenced by 2 shows")
}

func TestValidationErrorListsFieldsInOrder(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"state": "required", "city": "required"}}

	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "validation failed: city: required; state: required", err.Error())
}

func TestVenueApplyOnlyTouchesSetFields(t *testing.T) {
	v := Venue{Name: "The Musical Hop", City: "San Francisco", State: "CA", Genres: []string{"Jazz"}}
	name := "The Dueling Pianos Bar"
	seeking := true
	genres := []string{"Classical", "R&B"}

	v.Apply(VenuePatch{Name: &name, SeekingTalent: &seeking, Genres: &genres})

	assert.Equal(t, "The Dueling Pianos Bar", v.Name)
	assert.Equal(t, "San Francisco", v.City)
	assert.True(t, v.SeekingTalent)
	assert.Equal(t, []string{"Classical", "R&B"}, v.Genres)

	genres[0] = "Folk"
	assert.Equal(t, "Classical", v.Genres[0])
}

func TestNormalizeGenres(t *testing.T) {
	a := Artist{}
	a.Normalize()
	assert.NotNil(t, a.Genres)
	assert.Empty(t, a.Genres)
}
