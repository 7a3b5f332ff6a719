package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"ms-booking/internal/models"
)

func (d *DB) GetVenue(ctx context.Context, id int64) (*models.Venue, error) {
	venue := models.Venue{ID: id}
	if err := d.Bun.NewSelect().Model(&venue).WherePK().Scan(ctx); err != nil {
		return nil, fmt.Errorf("venue %d: %w", id, classify(err))
	}
	venue.Normalize()
	return &venue, nil
}

func (d *DB) ListVenues(ctx context.Context) ([]models.Venue, error) {
	var venues []models.Venue
	err := d.Bun.NewSelect().
		Model(&venues).
		OrderExpr("?TableAlias.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return normalizeVenues(venues), nil
}

func (d *DB) VenuesByCity(ctx context.Context, city, state string) ([]models.Venue, error) {
	var venues []models.Venue
	err := d.Bun.NewSelect().
		Model(&venues).
		Where("?TableAlias.city = ?", city).
		Where("?TableAlias.state = ?", state).
		OrderExpr("?TableAlias.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return normalizeVenues(venues), nil
}

// SearchVenues matches term as a case-insensitive substring of the name.
// An empty term matches every venue.
func (d *DB) SearchVenues(ctx context.Context, term string) ([]models.Venue, error) {
	var venues []models.Venue
	q := d.Bun.NewSelect().Model(&venues).OrderExpr("?TableAlias.id ASC")
	if term != "" {
		q = q.Where("LOWER(?TableAlias.name) LIKE ? ESCAPE '!'", containsPattern(term))
	}
	if err := q.Scan(ctx); err != nil {
		return nil, classify(err)
	}
	return normalizeVenues(venues), nil
}

func (d *DB) VenuesByID(ctx context.Context, ids []int64) (map[int64]models.Venue, error) {
	out := make(map[int64]models.Venue, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var venues []models.Venue
	err := d.Bun.NewSelect().
		Model(&venues).
		Where("?TableAlias.id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, classify(err)
	}
	for _, v := range normalizeVenues(venues) {
		out[v.ID] = v
	}
	return out, nil
}

// CreateVenue inserts venue and sets its database-assigned id.
func (d *DB) CreateVenue(ctx context.Context, venue *models.Venue) error {
	venue.Normalize()
	venue.ID = 0
	if _, err := d.Bun.NewInsert().Model(venue).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("insert venue: %w", classify(err))
	}
	return nil
}

func (d *DB) UpdateVenue(ctx context.Context, id int64, patch models.VenuePatch) (*models.Venue, error) {
	venue := models.Venue{ID: id}
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(&venue).WherePK().Scan(ctx); err != nil {
			return err
		}
		venue.Normalize()
		venue.Apply(patch)
		_, err := tx.NewUpdate().Model(&venue).WherePK().Exec(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update venue %d: %w", id, classify(err))
	}
	return &venue, nil
}

// DeleteVenue refuses to remove a venue that still has shows.
func (d *DB) DeleteVenue(ctx context.Context, id int64) error {
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*models.Venue)(nil)).Where("id = ?", id).Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return models.ErrNotFound
		}

		refs, err := tx.NewSelect().Model((*models.Show)(nil)).Where("venue_id = ?", id).Count(ctx)
		if err != nil {
			return err
		}
		if refs > 0 {
			return &models.DeletionBlockedError{
				Resource:   "venue",
				ID:         id,
				References: map[string]int64{"shows": int64(refs)},
			}
		}

		_, err = tx.NewDelete().Model((*models.Venue)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete venue %d: %w", id, classify(err))
	}
	return nil
}

func normalizeVenues(venues []models.Venue) []models.Venue {
	if venues == nil {
		return []models.Venue{}
	}
	for i := range venues {
		venues[i].Normalize()
	}
	return venues
}
