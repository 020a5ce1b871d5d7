package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"ms-eventhub/internal/models"

	"github.com/uptrace/bun"
)

var ErrNotFound = errors.New("banner not found")

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateBanner(banner models.Banner) error {
	_, err := d.Bun.NewInsert().Model(&banner).Exec(context.Background())
	return err
}

func (d *DB) GetBannerByID(id string) (*models.Banner, error) {
	var banner models.Banner
	err := d.Bun.NewSelect().
		Model(&banner).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &banner, nil
}

func (d *DB) UpdateBanner(banner models.Banner) error {
	res, err := d.Bun.NewUpdate().
		Model(&banner).
		Column("title", "image", "is_show", "updated_at").
		Where("id = ?", banner.ID).
		Exec(context.Background())
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DB) DeleteBanner(id string) error {
	res, err := d.Bun.NewDelete().
		Model((*models.Banner)(nil)).
		Where("id = ?", id).
		Exec(context.Background())
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBanners returns banners newest first; showOnly limits the listing to
// banners flagged visible.
func (d *DB) ListBanners(limit, page int, search string, showOnly bool) ([]models.Banner, int, error) {
	ctx := context.Background()

	var banners []models.Banner
	q := d.Bun.NewSelect().Model(&banners)
	if search != "" {
		q = q.Where("lower(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if showOnly {
		q = q.Where("is_show = ?", true)
	}

	count, err := q.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	err = q.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Scan(ctx)
	if err != nil {
		return nil, 0, err
	}
	if banners == nil {
		banners = []models.Banner{}
	}
	return banners, count, nil
}
