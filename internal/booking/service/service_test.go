package booking_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"ms-booking/internal/booking/db"
	"ms-booking/internal/booking/db/dbtest"
	"ms-booking/internal/booking/schedule"
	booking "ms-booking/internal/booking/service"
	"ms-booking/internal/models"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event models.ListingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

var now = time.Date(2026, 5, 21, 15, 0, 0, 0, time.UTC)

func setupService(t *testing.T, policy schedule.Policy, events booking.EventPublisher) (*booking.BookingService, *bun.DB) {
	bunDB := dbtest.Open(t)
	svc := booking.NewBookingService(db.New(bunDB), booking.Options{
		Clock:  clockwork.NewFakeClockAt(now),
		Policy: policy,
		Events: events,
	})
	return svc, bunDB
}

func musicalHop() models.VenueRequest {
	return models.VenueRequest{
		Name:               "The Musical Hop",
		City:               "San Francisco",
		State:              "CA",
		Address:            "1015 Folsom Street",
		Phone:              "123-123-1234",
		Genres:             []string{"Jazz", "Reggae", "Swing", "Classical", "Folk"},
		ImageLink:          "https://images.unsplash.com/photo-1543900694-133f37abaaa5",
		FacebookLink:       "https://www.facebook.com/TheMusicalHop",
		Website:            "https://www.themusicalhop.com",
		SeekingTalent:      true,
		SeekingDescription: "We are on the lookout for a local artist to play every two weeks. Please call us.",
	}
}

func artistReq(name string) models.ArtistRequest {
	return models.ArtistRequest{
		Name:      name,
		City:      "San Francisco",
		State:     "CA",
		Genres:    []string{"Rock n Roll"},
		ImageLink: "https://images.example.com/" + strings.ReplaceAll(name, " ", "-") + ".jpg",
	}
}

func TestReferenceInstantIsStartOfDay(t *testing.T) {
	svc, _ := setupService(t, schedule.BoundaryUpcoming, nil)

	assert.Equal(t, time.Date(2026, 5, 21, 0, 0, 0, 0, time.UTC), svc.ReferenceInstant())
}

func TestCreateVenueThenDetailRoundTrips(t *testing.T) {
	svc, _ := setupService(t, schedule.BoundaryUpcoming, nil)
	ctx := context.Background()

	req := musicalHop()
	venue, err := svc.CreateVenue(ctx, req)
	require.NoError(t, err)

	detail, err := svc.VenueDetail(ctx, venue.ID, svc.ReferenceInstant())
	require.NoError(t, err)
	assert.Equal(t, venue.ID, detail.ID)
	assert.Equal(t, req.Name, detail.Name)
	assert.Equal(t, req.City, detail.City)
	assert.Equal(t, req.State, detail.State)
	assert.Equal(t, req.Address, detail.Address)
	assert.Equal(t, req.Phone, detail.Phone)
	assert.Equal(t, req.Genres, detail.Genres)
	assert.Equal(t, req.ImageLink, detail.ImageLink)
	assert.Equal(t, req.FacebookLink, detail.FacebookLink)
	assert.Equal(t, req.Website, detail.Website)
	assert.Equal(t, req.SeekingTalent, detail.SeekingTalent)
	assert.Equal(t, req.SeekingDescription, detail.SeekingDescription)
	assert.Empty(t, detail.PastShows)
	assert.NotNil(t, detail.PastShows)
	assert.Equal(t, 0, detail.UpcomingShowsCount)
}

func TestVenueDetailBoundaryShowIsUpcomingOnly(t *testing.T) {
	svc, _ := setupService(t, schedule.BoundaryUpcoming, nil)
	ctx := context.Background()
	ref := svc.ReferenceInstant()

	venue, err := svc.CreateVenue(ctx, musicalHop())
	require.NoError(t, err)
	artist, err := svc.CreateArtist(ctx, artistReq("Guns N Petals"))
	require.NoError(t, err)

	for _, start := range []time.Time{ref.Add(-time.Hour), ref, ref.AddDate(0, 0, 2)} {
		_, err := svc.CreateShow(ctx, models.ShowRequest{
			ArtistID:  artist.ID,
			VenueID:   venue.ID,
			StartTime: start.Format(time.RFC3339),
		})
		require.NoError(t, err)
	}

	detail, err := svc.VenueDetail(ctx, venue.ID, ref)
	require.NoError(t, err)
	require.Len(t, detail.PastShows, 1)
	require.Len(t, detail.UpcomingShows, 2)
	assert.Equal(t, 1, detail.PastShowsCount)
	assert.Equal(t, 2, detail.UpcomingShowsCount)
	assert.Equal(t, "2026-05-20T23:00:00Z", detail.PastShows[0].StartTime)
	assert.Equal(t, "2026-05-21T00:00:00Z", detail.UpcomingShows[0].StartTime)
	assert.Equal(t, "Guns N Petals", detail.UpcomingShows[0].ArtistName)
	assert.Equal(t, artist.ImageLink, detail.UpcomingShows[0].ArtistImageLink)

	artistDetail, err := svc.ArtistDetail(ctx, artist.ID, ref)
	require.NoError(t, err)
	assert.Equal(t, 1, artistDetail.PastShowsCount)
	assert.Equal(t, 2, artistDetail.UpcomingShowsCount)
	assert.Equal(t, "The Musical Hop", artistDetail.PastShows[0].VenueName)
	assert.Equal(t, venue.ID, artistDetail.PastShows[0].VenueID)
}

func TestVenueDetailBoundaryShowInBothUnderLegacyPolicy(t *testing.T) {
	svc, _ := setupService(t, schedule.BoundaryBoth, nil)
	ctx := context.Background()
	ref := svc.ReferenceInstant()

	venue, err := svc.CreateVenue(ctx, musicalHop())
	require.NoError(t, err)
	artist, err := svc.CreateArtist(ctx, artistReq("Matt Quevedo"))
	require.NoError(t, err)
	_, err = svc.CreateShow(ctx, models.ShowRequest{ArtistID: artist.ID, VenueID: venue.ID, StartTime: ref.Format(time.RFC3339)})
	require.NoError(t, err)

	detail, err := svc.VenueDetail(ctx, venue.ID, ref)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.PastShowsCount)
	assert.Equal(t, 1, detail.UpcomingShowsCount)
	assert.Equal(t, len(detail.PastShows), detail.PastShowsCount)
	assert.Equal(t, len(detail.UpcomingShows), detail.UpcomingShowsCount)
}

func TestDeleteVenueThenDetailIsNotFound(t *testing.T) {
	svc, _ := setupService(t, schedule.BoundaryUpcoming, nil)
	ctx := context.Background()

	venue, err := svc.CreateVenue(ctx, musicalHop())
	require.NoError(t, err)
	require.NoError(t, svc.DeleteVenue(ctx, venue.ID))

	_, err = svc.VenueDetail(ctx, venue.ID, svc.ReferenceInstant())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteIsRestrictedWhileShowsExist(t *testing.T) {
	svc, _ := setupService(t, schedule.BoundaryUpcoming, nil)
	ctx := context.Background()

	venue, err := svc.CreateVenue(ctx, musicalHop())
	require.NoError(t, err)
	artist, err := svc.CreateArtist(ctx, artistReq("The Wild Sax Band"))
	require.NoError(t, err)
	_, err = svc.CreateShow(ctx, models.ShowRequest{ArtistID: artist.ID, VenueID: venue.ID, StartTime: "2035-04-01 20:00:00"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteVenue(ctx, venue.ID), models.ErrConflict)
	assert.ErrorIs(t, svc.DeleteArtist(ctx, artist.ID), models.ErrConflict)

	_, err = svc.VenueDetail(ctx, venue.ID, svc.ReferenceInstant())
	assert.NoError(t, err)
}

func TestSearchArtists(t *testing.T) {
	svc, _ := setupService(t, schedule.BoundaryUpcoming, nil)
	ctx := context.Background()
	ref := svc.ReferenceInstant()

	guns, err := svc.CreateArtist(ctx, artistReq("Guns N Petals"))
	require.NoError(t, err)
	_, err = svc.CreateArtist(ctx, artistReq("Matt Quevedo"))
	require.NoError(t, err)
	venue, err := svc.CreateVenue(ctx, musicalHop())
	require.NoError(t, err)
	_, err = svc.CreateShow(ctx, models.ShowRequest{ArtistID: guns.ID, VenueID: venue.ID, StartTime: ref.AddDate(0, 1, 0).Format(time.RFC3339)})
	require.NoError(t, err)
	_, err = svc.CreateShow(ctx, models.ShowRequest{ArtistID: guns.ID, VenueID: venue.ID, StartTime: ref.AddDate(0, -1, 0).Format(time.RFC3339)})
	require.NoError(t, err)

	result, err := svc.SearchArtists(ctx, "guns", ref)
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "Guns N Petals", result.Data[0].Name)
	assert.Equal(t, 1, result.Data[0].NumUpcomingShows)

	result, err = svc.SearchArtists(ctx, "   ", ref)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)

	result, err = svc.SearchArtists(ctx, "no such band", ref)
	require.NoError(t, err)
	raw, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":0,"data":[]}`, string(raw))
}

func TestSearchVenuesCountsUpcoming(t *testing.T) {
	svc, _ := setupService(t, schedule.BoundaryUpcoming, nil)
	ctx := context.Background()
	ref := svc.ReferenceInstant()

	hop, err := svc.CreateVenue(ctx, musicalHop())
	require.NoError(t, err)
	park := musicalHop()
	park.Name = "Park Square Live Music & Coffee"
	_, err = svc.CreateVenue(ctx, park)
	require.NoError(t, err)
	artist, err := svc.CreateArtist(ctx, artistReq("Guns N Petals"))
	require.NoError(t, err)
	_, err = svc.CreateShow(ctx, models.ShowRequest{ArtistID: artist.ID, VenueID: hop.ID, StartTime: ref.Format(time.RFC3339)})
	require.NoError(t, err)

	result, err := svc.SearchVenues(ctx, "Music", ref)
	require.NoError(t, err)
	require.Equal(t, 2, result.Count)
	assert.Equal(t, 1, result.Data[0].NumUpcomingShows)
	assert.Equal(t, 0, result.Data[1].NumUpcomingShows)
}

func TestListVenuesByCityGroupsInFirstSeenOrder(t *testing.T) {
	svc, _ := setupService(t, schedule.BoundaryUpcoming, nil)
	ctx := context.Background()

	sf1 := musicalHop()
	ny := musicalHop()
	ny.Name, ny.City, ny.State = "The Dueling Pianos Bar", "New York", "NY"
	sf2 := musicalHop()
	sf2.Name = "Park Square Live Music & Coffee"

	for _, req := range []models.VenueRequest{sf1, ny, sf2} {
		_, err := svc.CreateVenue(ctx, req)
		require.NoError(t, err)
	}

	groups, err := svc.ListVenuesByCity(ctx, svc.ReferenceInstant())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "San Francisco", groups[0].City)
	assert.Equal(t, "CA", groups[0].State)
	require.Len(t, groups[0].Venues, 2)
	assert.Equal(t, "The Musical Hop", groups[0].Venues[0].Name)
	assert.Equal(t, "Park Square Live Music & Coffee", groups[0].Venues[1].Name)
	assert.Equal(t, "New York", groups[1].City)
	assert.Len(t, groups[1].Venues, 1)

	group, err := svc.VenuesInCity(ctx, "New York", "NY", svc.ReferenceInstant())
	require.NoError(t, err)
	assert.Len(t, group.Venues, 1)

	group, err = svc.VenuesInCity(ctx, "Boston", "MA", svc.ReferenceInstant())
	require.NoError(t, err)
	assert.NotNil(t, group.Venues)
	assert.Empty(t, group.Venues)
}

func TestListVenuesByCityEmptyDirectory(t *testing.T) {
	svc, _ := setupService(t, schedule.BoundaryUpcoming, nil)

	groups, err := svc.ListVenuesByCity(context.Background(), svc.ReferenceInstant())
	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestDanglingArtistFailsVenueDetail(t *testing.T) {
	svc, bunDB := setupService(t, schedule.BoundaryUpcoming, nil)
	ctx := context.Background()

	venue, err := svc.CreateVenue(ctx, musicalHop())
	require.NoError(t, err)
	_, err = bunDB.NewInsert().Model(&models.Show{ArtistID: 404, VenueID: venue.ID, StartTime: now}).Exec(ctx)
	require.NoError(t, err)

	_, err = svc.VenueDetail(ctx, venue.ID, svc.ReferenceInstant())
	assert.ErrorIs(t, err, models.ErrIntegrity)

	_, err = svc.ListShows(ctx)
	assert.ErrorIs(t, err, models.ErrIntegrity)
}

func TestCreateShowValidatesAndEnforcesIntegrity(t *testing.T) {
	pub := &mockPublisher{}
	svc, _ := setupService(t, schedule.BoundaryUpcoming, pub)
	ctx := context.Background()

	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e models.ListingEvent) bool {
		return e.Entity == "venue" && e.Action == models.ActionCreated
	})).Return(nil).Once()

	venue, err := svc.CreateVenue(ctx, musicalHop())
	require.NoError(t, err)

	_, err = svc.CreateShow(ctx, models.ShowRequest{ArtistID: 77, VenueID: venue.ID, StartTime: "2035-04-01 20:00:00"})
	assert.ErrorIs(t, err, models.ErrIntegrity)

	_, err = svc.CreateShow(ctx, models.ShowRequest{ArtistID: 1, VenueID: venue.ID, StartTime: "tomorrow night"})
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "start_time")

	_, err = svc.CreateShow(ctx, models.ShowRequest{VenueID: venue.ID, StartTime: "2035-04-01 20:00:00"})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "artist_id")

	shows, err := svc.ListShows(ctx)
	require.NoError(t, err)
	assert.Empty(t, shows)
	pub.AssertExpectations(t)
}

func TestCreateVenueValidation(t *testing.T) {
	svc, _ := setupService(t, schedule.BoundaryUpcoming, nil)

	req := musicalHop()
	req.City = "   "
	req.Website = "not a url"
	req.Genres = []string{"Jazz", ""}

	_, err := svc.CreateVenue(context.Background(), req)
	assert.ErrorIs(t, err, models.ErrValidation)

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "is required", verr.Fields["city"])
	assert.Equal(t, "must be a valid URL", verr.Fields["website"])
	assert.Contains(t, verr.Fields, "genres[1]")
}

func TestUpdateVenueAndArtist(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	svc, _ := setupService(t, schedule.BoundaryUpcoming, pub)
	ctx := context.Background()

	venue, err := svc.CreateVenue(ctx, musicalHop())
	require.NoError(t, err)

	blank := "  "
	_, err = svc.UpdateVenue(ctx, venue.ID, models.VenuePatch{Name: &blank})
	assert.ErrorIs(t, err, models.ErrValidation)

	phone := "415-000-1111"
	updated, err := svc.UpdateVenue(ctx, venue.ID, models.VenuePatch{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, "The Musical Hop", updated.Name)

	_, err = svc.UpdateVenue(ctx, 9999, models.VenuePatch{Phone: &phone})
	assert.ErrorIs(t, err, models.ErrNotFound)

	artist, err := svc.CreateArtist(ctx, artistReq("Matt Quevedo"))
	require.NoError(t, err)
	genres := []string{"Jazz"}
	updatedArtist, err := svc.UpdateArtist(ctx, artist.ID, models.ArtistPatch{Genres: &genres})
	require.NoError(t, err)
	assert.Equal(t, []string{"Jazz"}, updatedArtist.Genres)

	prefill, err := svc.GetArtist(ctx, artist.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jazz"}, prefill.Genres)

	pub.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e models.ListingEvent) bool {
		return e.Entity == "artist" && e.Action == models.ActionUpdated && e.EntityID == artist.ID
	}))
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e models.ListingEvent) bool {
		return e.Entity == "venue" && e.EntityID == 9999
	}))
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	svc, _ := setupService(t, schedule.BoundaryUpcoming, pub)

	venue, err := svc.CreateVenue(context.Background(), musicalHop())
	require.NoError(t, err)
	assert.NotZero(t, venue.ID)
	pub.AssertNumberOfCalls(t, "Publish", 1)
}

func TestListArtistsAndShows(t *testing.T) {
	svc, _ := setupService(t, schedule.BoundaryUpcoming, nil)
	ctx := context.Background()

	venue, err := svc.CreateVenue(ctx, musicalHop())
	require.NoError(t, err)
	guns, err := svc.CreateArtist(ctx, artistReq("Guns N Petals"))
	require.NoError(t, err)
	sax, err := svc.CreateArtist(ctx, artistReq("The Wild Sax Band"))
	require.NoError(t, err)

	_, err = svc.CreateShow(ctx, models.ShowRequest{ArtistID: sax.ID, VenueID: venue.ID, StartTime: "2035-04-08T20:00:00Z"})
	require.NoError(t, err)
	_, err = svc.CreateShow(ctx, models.ShowRequest{ArtistID: guns.ID, VenueID: venue.ID, StartTime: "2019-05-21T21:30:00Z"})
	require.NoError(t, err)

	artists, err := svc.ListArtists(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.ArtistSummary{{ID: guns.ID, Name: "Guns N Petals"}, {ID: sax.ID, Name: "The Wild Sax Band"}}, artists)

	shows, err := svc.ListShows(ctx)
	require.NoError(t, err)
	require.Len(t, shows, 2)
	assert.Equal(t, models.ShowListing{
		VenueID:         venue.ID,
		VenueName:       "The Musical Hop",
		ArtistID:        guns.ID,
		ArtistName:      "Guns N Petals",
		ArtistImageLink: guns.ImageLink,
		StartTime:       "2019-05-21T21:30:00Z",
	}, shows[0])
	assert.Equal(t, "The Wild Sax Band", shows[1].ArtistName)
}
