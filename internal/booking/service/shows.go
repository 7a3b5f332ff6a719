package booking

import (
	"context"
	"fmt"

	"ms-booking/internal/models"
	"ms-booking/internal/utils"
)

func (s *BookingService) CreateShow(ctx context.Context, req models.ShowRequest) (*models.Show, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	start, err := utils.ParseStartTime(req.StartTime, s.location)
	if err != nil {
		return nil, &models.ValidationError{Fields: map[string]string{
			"start_time": "must be RFC 3339 or " + utils.FormLayout,
		}}
	}

	show := models.Show{ArtistID: req.ArtistID, VenueID: req.VenueID, StartTime: start}
	if err := s.DB.CreateShow(ctx, &show); err != nil {
		s.Logger.Error("DIRECTORY", fmt.Sprintf("Failed to create show artist=%d venue=%d: %v", req.ArtistID, req.VenueID, err))
		return nil, err
	}
	s.Logger.LogDirectory("CREATE", "show", show.ID, fmt.Sprintf("artist=%d venue=%d at %s", show.ArtistID, show.VenueID, utils.FormatTimestamp(show.StartTime)))
	s.publish(ctx, "show", models.ActionCreated, show.ID, show)
	return &show, nil
}

// ListShows returns every show with both sides resolved, ordered by start time.
func (s *BookingService) ListShows(ctx context.Context) ([]models.ShowListing, error) {
	shows, err := s.DB.ListShows(ctx)
	if err != nil {
		return nil, err
	}
	venues, err := s.DB.VenuesByID(ctx, venueIDs(shows))
	if err != nil {
		return nil, err
	}
	artists, err := s.DB.ArtistsByID(ctx, artistIDs(shows))
	if err != nil {
		return nil, err
	}

	out := make([]models.ShowListing, 0, len(shows))
	for _, sh := range shows {
		v, ok := venues[sh.VenueID]
		if !ok {
			return nil, fmt.Errorf("%w: show %d references missing venue %d", models.ErrIntegrity, sh.ID, sh.VenueID)
		}
		a, ok := artists[sh.ArtistID]
		if !ok {
			return nil, fmt.Errorf("%w: show %d references missing artist %d", models.ErrIntegrity, sh.ID, sh.ArtistID)
		}
		out = append(out, models.ShowListing{
			VenueID:         v.ID,
			VenueName:       v.Name,
			ArtistID:        a.ID,
			ArtistName:      a.Name,
			ArtistImageLink: a.ImageLink,
			StartTime:       utils.FormatTimestamp(sh.StartTime),
		})
	}
	return out, nil
}
