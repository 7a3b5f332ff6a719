package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"ms-booking/internal/models"
)

func (d *DB) GetArtist(ctx context.Context, id int64) (*models.Artist, error) {
	artist := models.Artist{ID: id}
	if err := d.Bun.NewSelect().Model(&artist).WherePK().Scan(ctx); err != nil {
		return nil, fmt.Errorf("artist %d: %w", id, classify(err))
	}
	artist.Normalize()
	return &artist, nil
}

func (d *DB) ListArtists(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist
	err := d.Bun.NewSelect().
		Model(&artists).
		OrderExpr("?TableAlias.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return normalizeArtists(artists), nil
}

func (d *DB) SearchArtists(ctx context.Context, term string) ([]models.Artist, error) {
	var artists []models.Artist
	q := d.Bun.NewSelect().Model(&artists).OrderExpr("?TableAlias.id ASC")
	if term != "" {
		q = q.Where("LOWER(?TableAlias.name) LIKE ? ESCAPE '!'", containsPattern(term))
	}
	if err := q.Scan(ctx); err != nil {
		return nil, classify(err)
	}
	return normalizeArtists(artists), nil
}

func (d *DB) ArtistsByID(ctx context.Context, ids []int64) (map[int64]models.Artist, error) {
	out := make(map[int64]models.Artist, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var artists []models.Artist
	err := d.Bun.NewSelect().
		Model(&artists).
		Where("?TableAlias.id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, classify(err)
	}
	for _, a := range normalizeArtists(artists) {
		out[a.ID] = a
	}
	return out, nil
}

func (d *DB) CreateArtist(ctx context.Context, artist *models.Artist) error {
	artist.Normalize()
	artist.ID = 0
	if _, err := d.Bun.NewInsert().Model(artist).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("insert artist: %w", classify(err))
	}
	return nil
}

func (d *DB) UpdateArtist(ctx context.Context, id int64, patch models.ArtistPatch) (*models.Artist, error) {
	artist := models.Artist{ID: id}
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(&artist).WherePK().Scan(ctx); err != nil {
			return err
		}
		artist.Normalize()
		artist.Apply(patch)
		_, err := tx.NewUpdate().Model(&artist).WherePK().Exec(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update artist %d: %w", id, classify(err))
	}
	return &artist, nil
}

// DeleteArtist refuses to remove an artist that still has shows.
func (d *DB) DeleteArtist(ctx context.Context, id int64) error {
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*models.Artist)(nil)).Where("id = ?", id).Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return models.ErrNotFound
		}

		refs, err := tx.NewSelect().Model((*models.Show)(nil)).Where("artist_id = ?", id).Count(ctx)
		if err != nil {
			return err
		}
		if refs > 0 {
			return &models.DeletionBlockedError{
				Resource:   "artist",
				ID:         id,
				References: map[string]int64{"shows": int64(refs)},
			}
		}

		_, err = tx.NewDelete().Model((*models.Artist)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete artist %d: %w", id, classify(err))
	}
	return nil
}

func normalizeArtists(artists []models.Artist) []models.Artist {
	if artists == nil {
		return []models.Artist{}
	}
	for i := range artists {
		artists[i].Normalize()
	}
	return artists
}
