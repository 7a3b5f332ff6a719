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

func (s *BookingService) CreateArtist(ctx context.Context, req models.ArtistRequest) (*models.Artist, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.City = strings.TrimSpace(req.City)
	req.State = strings.TrimSpace(req.State)
	if err := s.check(req); err != nil {
		return nil, err
	}

	artist := req.Artist()
	if err := s.DB.CreateArtist(ctx, &artist); err != nil {
		s.Logger.Error("DIRECTORY", fmt.Sprintf("Failed to create artist %q: %v", req.Name, err))
		return nil, err
	}
	s.Logger.LogDirectory("CREATE", "artist", artist.ID, artist.Name)
	s.publish(ctx, "artist", models.ActionCreated, artist.ID, artist)
	return &artist, nil
}

func (s *BookingService) UpdateArtist(ctx context.Context, id int64, patch models.ArtistPatch) (*models.Artist, error) {
	trimPtr(patch.Name)
	trimPtr(patch.City)
	trimPtr(patch.State)
	if err := s.check(patch); err != nil {
		return nil, err
	}

	artist, err := s.DB.UpdateArtist(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.Logger.LogDirectory("UPDATE", "artist", artist.ID, artist.Name)
	s.publish(ctx, "artist", models.ActionUpdated, artist.ID, artist)
	return artist, nil
}

func (s *BookingService) DeleteArtist(ctx context.Context, id int64) error {
	if err := s.DB.DeleteArtist(ctx, id); err != nil {
		return err
	}
	s.Logger.LogDirectory("DELETE", "artist", id, "removed")
	s.publish(ctx, "artist", models.ActionDeleted, id, nil)
	return nil
}

func (s *BookingService) GetArtist(ctx context.Context, id int64) (*models.Artist, error) {
	return s.DB.GetArtist(ctx, id)
}

func (s *BookingService) ListArtists(ctx context.Context) ([]models.ArtistSummary, error) {
	artists, err := s.DB.ListArtists(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.ArtistSummary, 0, len(artists))
	for _, a := range artists {
		out = append(out, models.ArtistSummary{ID: a.ID, Name: a.Name})
	}
	return out, nil
}

func (s *BookingService) ArtistDetail(ctx context.Context, id int64, ref time.Time) (*models.ArtistDetail, error) {
	artist, err := s.DB.GetArtist(ctx, id)
	if err != nil {
		return nil, err
	}
	shows, err := s.DB.ShowsByArtist(ctx, id)
	if err != nil {
		return nil, err
	}
	venues, err := s.DB.VenuesByID(ctx, venueIDs(shows))
	if err != nil {
		return nil, err
	}

	part := schedule.Classify(shows, ref, s.policy)
	past, err := artistShows(part.Past, venues)
	if err != nil {
		return nil, err
	}
	upcoming, err := artistShows(part.Upcoming, venues)
	if err != nil {
		return nil, err
	}

	return &models.ArtistDetail{
		Artist:             *artist,
		PastShows:          past,
		UpcomingShows:      upcoming,
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	}, nil
}

func (s *BookingService) SearchArtists(ctx context.Context, term string, ref time.Time) (*models.SearchResult, error) {
	artists, err := s.DB.SearchArtists(ctx, strings.TrimSpace(term))
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(artists))
	for _, a := range artists {
		ids = append(ids, a.ID)
	}
	shows, err := s.DB.ShowsByArtist(ctx, ids...)
	if err != nil {
		return nil, err
	}
	counts := schedule.CountUpcoming(shows, ref, s.policy, schedule.ByArtist)

	data := make([]models.EntitySummary, 0, len(artists))
	for _, a := range artists {
		data = append(data, models.EntitySummary{ID: a.ID, Name: a.Name, NumUpcomingShows: counts[a.ID]})
	}
	return &models.SearchResult{Count: len(data), Data: data}, nil
}

func artistShows(shows []models.Show, venues map[int64]models.Venue) ([]models.ArtistShow, error) {
	out := make([]models.ArtistShow, 0, len(shows))
	for _, sh := range shows {
		v, ok := venues[sh.VenueID]
		if !ok {
			return nil, fmt.Errorf("%w: show %d references missing venue %d", models.ErrIntegrity, sh.ID, sh.VenueID)
		}
		out = append(out, models.ArtistShow{
			VenueID:        v.ID,
			VenueName:      v.Name,
			VenueImageLink: v.ImageLink,
			StartTime:      utils.FormatTimestamp(sh.StartTime),
		})
	}
	return out, nil
}
