package db

import (
	"context"

	"ms-eventhub/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateUser(user models.User) error {
	_, err := d.Bun.NewInsert().Model(&user).Exec(context.Background())
	return err
}

func (d *DB) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetActiveUserByIdentifier resolves a login identifier against username or
// email, restricted to activated accounts.
func (d *DB) GetActiveUserByIdentifier(identifier string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("is_active = ?", true).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("username = ?", identifier).WhereOr("email = ?", identifier)
		}).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *DB) GetUserByActivationCode(code string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("activation_code = ?", code).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *DB) UpdateUser(user models.User) error {
	_, err := d.Bun.NewUpdate().
		Model(&user).
		Column("fullname", "profile_picture", "is_active", "updated_at").
		Where("id = ?", user.ID).
		Exec(context.Background())
	return err
}
