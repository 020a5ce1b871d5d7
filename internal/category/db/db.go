package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"ms-eventhub/internal/models"

	"github.com/uptrace/bun"
)

var ErrNotFound = errors.New("category not found")

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateCategory(category models.Category) error {
	_, err := d.Bun.NewInsert().Model(&category).Exec(context.Background())
	return err
}

func (d *DB) GetCategoryByID(id string) (*models.Category, error) {
	var category models.Category
	err := d.Bun.NewSelect().
		Model(&category).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (d *DB) UpdateCategory(category models.Category) error {
	res, err := d.Bun.NewUpdate().
		Model(&category).
		Column("name", "description", "icon", "updated_at").
		Where("id = ?", category.ID).
		Exec(context.Background())
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DB) DeleteCategory(id string) error {
	res, err := d.Bun.NewDelete().
		Model((*models.Category)(nil)).
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

func (d *DB) ListCategories(limit, page int, search string) ([]models.Category, int, error) {
	ctx := context.Background()

	var categories []models.Category
	q := d.Bun.NewSelect().Model(&categories)
	if search != "" {
		q = q.Where("lower(name) LIKE ?", "%"+strings.ToLower(search)+"%")
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
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, count, nil
}
