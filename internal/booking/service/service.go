package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"

	"ms-booking/internal/booking/schedule"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

type DBLayer interface {
	Ping(ctx context.Context) error

	GetVenue(ctx context.Context, id int64) (*models.Venue, error)
	ListVenues(ctx context.Context) ([]models.Venue, error)
	VenuesByCity(ctx context.Context, city, state string) ([]models.Venue, error)
	SearchVenues(ctx context.Context, term string) ([]models.Venue, error)
	VenuesByID(ctx context.Context, ids []int64) (map[int64]models.Venue, error)
	CreateVenue(ctx context.Context, venue *models.Venue) error
	UpdateVenue(ctx context.Context, id int64, patch models.VenuePatch) (*models.Venue, error)
	DeleteVenue(ctx context.Context, id int64) error

	GetArtist(ctx context.Context, id int64) (*models.Artist, error)
	ListArtists(ctx context.Context) ([]models.Artist, error)
	SearchArtists(ctx context.Context, term string) ([]models.Artist, error)
	ArtistsByID(ctx context.Context, ids []int64) (map[int64]models.Artist, error)
	CreateArtist(ctx context.Context, artist *models.Artist) error
	UpdateArtist(ctx context.Context, id int64, patch models.ArtistPatch) (*models.Artist, error)
	DeleteArtist(ctx context.Context, id int64) error

	CreateShow(ctx context.Context, show *models.Show) error
	ListShows(ctx context.Context) ([]models.Show, error)
	ShowsByVenue(ctx context.Context, venueIDs ...int64) ([]models.Show, error)
	ShowsByArtist(ctx context.Context, artistIDs ...int64) ([]models.Show, error)
}

// EventPublisher receives a ListingEvent after each committed mutation.
type EventPublisher interface {
	Publish(ctx context.Context, event models.ListingEvent) error
}

type Options struct {
	Clock    clockwork.Clock
	Location *time.Location
	Policy   schedule.Policy
	Events   EventPublisher
	Logger   *logger.Logger
}

type BookingService struct {
	DB     DBLayer
	Events EventPublisher
	Logger *logger.Logger

	clock    clockwork.Clock
	location *time.Location
	policy   schedule.Policy
	validate *validator.Validate
}

func NewBookingService(db DBLayer, opts Options) *BookingService {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Logger == nil {
		opts.Logger = logger.New(io.Discard, false)
	}

	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	return &BookingService{
		DB:       db,
		Events:   opts.Events,
		Logger:   opts.Logger,
		clock:    opts.Clock,
		location: opts.Location,
		policy:   opts.Policy,
		validate: validate,
	}
}

// ReferenceInstant is the start of the current day in the directory location.
// Take it once per request and pass it to every projection of that request.
func (s *BookingService) ReferenceInstant() time.Time {
	return schedule.ReferenceInstant(s.clock.Now(), s.location)
}

func (s *BookingService) Location() *time.Location { return s.location }

func (s *BookingService) Policy() schedule.Policy { return s.policy }

func (s *BookingService) Ping(ctx context.Context) error {
	return s.DB.Ping(ctx)
}

func (s *BookingService) check(v interface{}) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		ns := fe.Namespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		fields[ns] = describe(fe)
	}
	return &models.ValidationError{Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must not be empty"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "url":
		return "must be a valid URL"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}

func (s *BookingService) publish(ctx context.Context, entity, action string, id int64, payload interface{}) {
	if s.Events == nil {
		return
	}
	event := models.ListingEvent{
		Entity:     entity,
		Action:     action,
		EntityID:   id,
		OccurredAt: s.clock.Now().UTC(),
		Payload:    payload,
	}
	if err := s.Events.Publish(ctx, event); err != nil {
		s.Logger.Warn("EVENTS", fmt.Sprintf("Failed to publish %s %s %d: %v", entity, action, id, err))
	}
}

func trimPtr(p *string) {
	if p != nil {
		*p = strings.TrimSpace(*p)
	}
}
