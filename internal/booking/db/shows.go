package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"ms-booking/internal/models"
)

// CreateShow checks both counterparts inside the insert transaction.
// A missing artist or venue yields ErrIntegrity and nothing is written.
func (d *DB) CreateShow(ctx context.Context, show *models.Show) error {
	show.ID = 0
	show.StartTime = show.StartTime.UTC()

	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		ok, err := tx.NewSelect().Model((*models.Artist)(nil)).Where("id = ?", show.ArtistID).Exists(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: artist %d does not exist", models.ErrIntegrity, show.ArtistID)
		}

		ok, err = tx.NewSelect().Model((*models.Venue)(nil)).Where("id = ?", show.VenueID).Exists(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: venue %d does not exist", models.ErrIntegrity, show.VenueID)
		}

		_, err = tx.NewInsert().Model(show).Returning("id").Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("insert show: %w", classify(err))
	}
	return nil
}

// ListShows returns every show ordered by start time.
func (d *DB) ListShows(ctx context.Context) ([]models.Show, error) {
	var shows []models.Show
	err := d.Bun.NewSelect().
		Model(&shows).
		OrderExpr("?TableAlias.start_time ASC, ?TableAlias.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return utcShows(shows), nil
}

func (d *DB) ShowsByVenue(ctx context.Context, venueIDs ...int64) ([]models.Show, error) {
	return d.showsBy(ctx, "venue_id", venueIDs)
}

func (d *DB) ShowsByArtist(ctx context.Context, artistIDs ...int64) ([]models.Show, error) {
	return d.showsBy(ctx, "artist_id", artistIDs)
}

func (d *DB) showsBy(ctx context.Context, column string, ids []int64) ([]models.Show, error) {
	if len(ids) == 0 {
		return []models.Show{}, nil
	}
	var shows []models.Show
	err := d.Bun.NewSelect().
		Model(&shows).
		Where("?TableAlias.? IN (?)", bun.Ident(column), bun.In(ids)).
		OrderExpr("?TableAlias.start_time ASC, ?TableAlias.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return utcShows(shows), nil
}

func utcShows(shows []models.Show) []models.Show {
	if shows == nil {
		return []models.Show{}
	}
	for i := range shows {
		shows[i].StartTime = shows[i].StartTime.UTC()
	}
	return shows
}
