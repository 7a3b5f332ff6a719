// Package seed loads the sample venues, artists and shows into an empty directory.
package seed

import (
	"context"
	"fmt"

	booking "ms-booking/internal/booking/service"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

type showSeed struct {
	venue, artist int
	start         string
}

var venues = []models.VenueRequest{
	{
		Name:               "The Musical Hop",
		Genres:             []string{"Jazz", "Reggae", "Swing", "Classical", "Folk"},
		Address:            "1015 Folsom Street",
		City:               "San Francisco",
		State:              "CA",
		Phone:              "123-123-1234",
		Website:            "https://www.themusicalhop.com",
		FacebookLink:       "https://www.facebook.com/TheMusicalHop",
		SeekingTalent:      true,
		SeekingDescription: "We are on the lookout for a local artist to play every two weeks. Please call us.",
		ImageLink:          "https://images.unsplash.com/photo-1543900694-133f37abaaa5",
	},
	{
		Name:         "The Dueling Pianos Bar",
		Genres:       []string{"Classical", "R&B", "Hip-Hop"},
		Address:      "335 Delancey Street",
		City:         "New York",
		State:        "NY",
		Phone:        "914-003-1132",
		Website:      "https://www.theduelingpianos.com",
		FacebookLink: "https://www.facebook.com/theduelingpianos",
		ImageLink:    "https://images.unsplash.com/photo-1497032205916-ac775f0649ae",
	},
	{
		Name:         "Park Square Live Music & Coffee",
		Genres:       []string{"Rock n Roll", "Jazz", "Classical", "Folk"},
		Address:      "34 Whiskey Moore Ave",
		City:         "San Francisco",
		State:        "CA",
		Phone:        "415-000-1234",
		Website:      "https://www.parksquarelivemusicandcoffee.com",
		FacebookLink: "https://www.facebook.com/ParkSquareLiveMusicAndCoffee",
		ImageLink:    "https://images.unsplash.com/photo-1485686531765-ba63b07845a7",
	},
}

var artists = []models.ArtistRequest{
	{
		Name:               "Guns N Petals",
		Genres:             []string{"Rock n Roll"},
		City:               "San Francisco",
		State:              "CA",
		Phone:              "326-123-5000",
		Website:            "https://www.gunsnpetalsband.com",
		FacebookLink:       "https://www.facebook.com/GunsNPetals",
		SeekingVenue:       true,
		SeekingDescription: "Looking for shows to perform at in the San Francisco Bay Area!",
		ImageLink:          "https://images.unsplash.com/photo-1549213783-8284d0336c4f",
	},
	{
		Name:         "Matt Quevedo",
		Genres:       []string{"Jazz"},
		City:         "New York",
		State:        "NY",
		Phone:        "300-400-5000",
		FacebookLink: "https://www.facebook.com/mattquevedo923251523",
		ImageLink:    "https://images.unsplash.com/photo-1495223153807-b916f75de8c5",
	},
	{
		Name:      "The Wild Sax Band",
		Genres:    []string{"Jazz", "Classical"},
		City:      "San Francisco",
		State:     "CA",
		Phone:     "432-325-5432",
		ImageLink: "https://images.unsplash.com/photo-1558369981-f9ca78462e61",
	},
}

// shows index into venues and artists above.
var shows = []showSeed{
	{venue: 0, artist: 0, start: "2019-05-21T21:30:00Z"},
	{venue: 2, artist: 1, start: "2019-06-15T23:00:00Z"},
	{venue: 2, artist: 2, start: "2035-04-01T20:00:00Z"},
	{venue: 2, artist: 2, start: "2035-04-08T20:00:00Z"},
	{venue: 2, artist: 2, start: "2035-04-15T20:00:00Z"},
}

// Result counts the rows inserted by Run.
type Result struct {
	Venues  int
	Artists int
	Shows   int
	Skipped bool
}

// Run inserts the sample data through the service so every row is validated and announced.
// A directory that already lists venues or artists is left untouched.
func Run(ctx context.Context, svc *booking.BookingService, log *logger.Logger) (Result, error) {
	var res Result

	existingVenues, err := svc.DB.ListVenues(ctx)
	if err != nil {
		return res, err
	}
	existingArtists, err := svc.DB.ListArtists(ctx)
	if err != nil {
		return res, err
	}
	if len(existingVenues) > 0 || len(existingArtists) > 0 {
		log.Info("SEED", fmt.Sprintf("Directory already has %d venues and %d artists, skipping seed", len(existingVenues), len(existingArtists)))
		res.Skipped = true
		return res, nil
	}

	venueIDs := make([]int64, len(venues))
	for i, req := range venues {
		v, err := svc.CreateVenue(ctx, req)
		if err != nil {
			return res, fmt.Errorf("seed venue %q: %w", req.Name, err)
		}
		venueIDs[i] = v.ID
		res.Venues++
	}

	artistIDs := make([]int64, len(artists))
	for i, req := range artists {
		a, err := svc.CreateArtist(ctx, req)
		if err != nil {
			return res, fmt.Errorf("seed artist %q: %w", req.Name, err)
		}
		artistIDs[i] = a.ID
		res.Artists++
	}

	for _, s := range shows {
		_, err := svc.CreateShow(ctx, models.ShowRequest{
			VenueID:   venueIDs[s.venue],
			ArtistID:  artistIDs[s.artist],
			StartTime: s.start,
		})
		if err != nil {
			return res, fmt.Errorf("seed show at %s: %w", s.start, err)
		}
		res.Shows++
	}

	log.Info("SEED", fmt.Sprintf("Seeded %d venues, %d artists, %d shows", res.Venues, res.Artists, res.Shows))
	return res, nil
}
