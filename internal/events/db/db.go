package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"ms-eventhub/internal/models"

	"github.com/uptrace/bun"
)

var ErrNotFound = errors.New("event not found")

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateEvent(event models.Event) error {
	_, err := d.Bun.NewInsert().Model(&event).Exec(context.Background())
	return err
}

func (d *DB) GetEventByID(id string) (*models.Event, error) {
	return d.getEvent("id = ?", id)
}

func (d *DB) GetEventBySlug(slug string) (*models.Event, error) {
	return d.getEvent("slug = ?", slug)
}

func (d *DB) getEvent(cond string, arg string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where(cond, arg).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (d *DB) UpdateEvent(event models.Event) error {
	res, err := d.Bun.NewUpdate().
		Model(&event).
		Column("name", "slug", "description", "banner", "category_id",
			"start_date", "end_date", "is_featured", "is_online", "is_publish",
			"region", "latitude", "longitude", "address", "updated_at").
		Where("id = ?", event.ID).
		Exec(context.Background())
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DB) DeleteEvent(id string) error {
	res, err := d.Bun.NewDelete().
		Model((*models.Event)(nil)).
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

// ListEvents filters by search (name match) and the optional flags, newest
// first.
func (d *DB) ListEvents(limit, page int, search string, featuredOnly, publishedOnly bool) ([]models.Event, int, error) {
	ctx := context.Background()

	var events []models.Event
	q := d.Bun.NewSelect().Model(&events)
	if search != "" {
		q = q.Where("lower(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if featuredOnly {
		q = q.Where("is_featured = ?", true)
	}
	if publishedOnly {
		q = q.Where("is_publish = ?", true)
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
	if events == nil {
		events = []models.Event{}
	}
	return events, count, nil
}
