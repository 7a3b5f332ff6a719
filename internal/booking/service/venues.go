package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ms-booking/internal/booking/schedule"
	"ms-booking/internal/models"
	"ms-booking/internal/utils"
)

func (s *BookingService) CreateVenue(ctx context.Context, req models.VenueRequest) (*models.Venue, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.City = strings.TrimSpace(req.City)
	req.State = strings.TrimSpace(req.State)
	if err := s.check(req); err != nil {
		return nil, err
	}

	venue := req.Venue()
	if err := s.DB.CreateVenue(ctx, &venue); err != nil {
		s.Logger.Error("DIRECTORY", fmt.Sprintf("Failed to create venue %q: %v", req.Name, err))
		return nil, err
	}
	s.Logger.LogDirectory("CREATE", "venue", venue.ID, venue.Name)
	s.publish(ctx, "venue", models.ActionCreated, venue.ID, venue)
	return &venue, nil
}

func (s *BookingService) UpdateVenue(ctx context.Context, id int64, patch models.VenuePatch) (*models.Venue, error) {
	trimPtr(patch.Name)
	trimPtr(patch.City)
	trimPtr(patch.State)
	if err := s.check(patch); err != nil {
		return nil, err
	}

	venue, err := s.DB.UpdateVenue(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.Logger.LogDirectory("UPDATE", "venue", venue.ID, venue.Name)
	s.publish(ctx, "venue", models.ActionUpdated, venue.ID, venue)
	return venue, nil
}

func (s *BookingService) DeleteVenue(ctx context.Context, id int64) error {
	if err := s.DB.DeleteVenue(ctx, id); err != nil {
		return err
	}
	s.Logger.LogDirectory("DELETE", "venue", id, "removed")
	s.publish(ctx, "venue", models.ActionDeleted, id, nil)
	return nil
}

// GetVenue returns the stored record, used to pre-fill edit forms.
func (s *BookingService) GetVenue(ctx context.Context, id int64) (*models.Venue, error) {
	return s.DB.GetVenue(ctx, id)
}

// ListVenuesByCity groups venues by exact (city, state) in first-seen order.
func (s *BookingService) ListVenuesByCity(ctx context.Context, ref time.Time) ([]models.CityGroup, error) {
	venues, err := s.DB.ListVenues(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.upcomingByVenue(ctx, venues, ref)
	if err != nil {
		return nil, err
	}

	type cityKey struct{ city, state string }
	groups := []models.CityGroup{}
	index := map[cityKey]int{}
	for _, v := range venues {
		key := cityKey{v.City, v.State}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, models.CityGroup{City: v.City, State: v.State, Venues: []models.EntitySummary{}})
		}
		groups[i].Venues = append(groups[i].Venues, models.EntitySummary{
			ID:               v.ID,
			Name:             v.Name,
			NumUpcomingShows: counts[v.ID],
		})
	}
	return groups, nil
}

// VenuesInCity returns the single group for one city and state.
func (s *BookingService) VenuesInCity(ctx context.Context, city, state string, ref time.Time) (*models.CityGroup, error) {
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	venues, err := s.DB.VenuesByCity(ctx, city, state)
	if err != nil {
		return nil, err
	}
	counts, err := s.upcomingByVenue(ctx, venues, ref)
	if err != nil {
		return nil, err
	}
	group := &models.CityGroup{City: city, State: state, Venues: summarizeVenues(venues, counts)}
	return group, nil
}

func (s *BookingService) VenueDetail(ctx context.Context, id int64, ref time.Time) (*models.VenueDetail, error) {
	venue, err := s.DB.GetVenue(ctx, id)
	if err != nil {
		return nil, err
	}
	shows, err := s.DB.ShowsByVenue(ctx, id)
	if err != nil {
		return nil, err
	}
	artists, err := s.DB.ArtistsByID(ctx, artistIDs(shows))
	if err != nil {
		return nil, err
	}

	part := schedule.Classify(shows, ref, s.policy)
	past, err := venueShows(part.Past, artists)
	if err != nil {
		return nil, err
	}
	upcoming, err := venueShows(part.Upcoming, artists)
	if err != nil {
		return nil, err
	}

	return &models.VenueDetail{
		Venue:              *venue,
		PastShows:          past,
		UpcomingShows:      upcoming,
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	}, nil
}

// SearchVenues matches term case-insensitively anywhere in the name.
// A blank term matches every venue.
func (s *BookingService) SearchVenues(ctx context.Context, term string, ref time.Time) (*models.SearchResult, error) {
	venues, err := s.DB.SearchVenues(ctx, strings.TrimSpace(term))
	if err != nil {
		return nil, err
	}
	counts, err := s.upcomingByVenue(ctx, venues, ref)
	if err != nil {
		return nil, err
	}
	data := summarizeVenues(venues, counts)
	return &models.SearchResult{Count: len(data), Data: data}, nil
}

func (s *BookingService) upcomingByVenue(ctx context.Context, venues []models.Venue, ref time.Time) (map[int64]int, error) {
	ids := make([]int64, 0, len(venues))
	for _, v := range venues {
		ids = append(ids, v.ID)
	}
	shows, err := s.DB.ShowsByVenue(ctx, ids...)
	if err != nil {
		return nil, err
	}
	return schedule.CountUpcoming(shows, ref, s.policy, schedule.ByVenue), nil
}

func summarizeVenues(venues []models.Venue, counts map[int64]int) []models.EntitySummary {
	out := make([]models.EntitySummary, 0, len(venues))
	for _, v := range venues {
		out = append(out, models.EntitySummary{ID: v.ID, Name: v.Name, NumUpcomingShows: counts[v.ID]})
	}
	return out
}

func venueShows(shows []models.Show, artists map[int64]models.Artist) ([]models.VenueShow, error) {
	out := make([]models.VenueShow, 0, len(shows))
	for _, sh := range shows {
		a, ok := artists[sh.ArtistID]
		if !ok {
			return nil, fmt.Errorf("%w: show %d references missing artist %d", models.ErrIntegrity, sh.ID, sh.ArtistID)
		}
		out = append(out, models.VenueShow{
			ArtistID:        a.ID,
			ArtistName:      a.Name,
			ArtistImageLink: a.ImageLink,
			StartTime:       utils.FormatTimestamp(sh.StartTime),
		})
	}
	return out, nil
}

func artistIDs(shows []models.Show) []int64 {
	seen := map[int64]bool{}
	ids := []int64{}
	for _, sh := range shows {
		if !seen[sh.ArtistID] {
			seen[sh.ArtistID] = true
			ids = append(ids, sh.ArtistID)
		}
	}
	return ids
}

func venueIDs(shows []models.Show) []int64 {
	seen := map[int64]bool{}
	ids := []int64{}
	for _, sh := range shows {
		if !seen[sh.VenueID] {
			seen[sh.VenueID] = true
			ids = append(ids, sh.VenueID)
		}
	}
	return ids
}
