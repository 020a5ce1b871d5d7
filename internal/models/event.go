package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string    `bun:"id,pk" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Slug        string    `bun:"slug,unique" json:"slug"`
	Description string    `bun:"description,notnull" json:"description"`
	Banner      string    `bun:"banner,notnull" json:"banner"`
	CategoryID  string    `bun:"category_id,notnull" json:"category"`
	StartDate   string    `bun:"start_date,notnull" json:"startDate"`
	EndDate     string    `bun:"end_date,notnull" json:"endDate"`
	IsFeatured  bool      `bun:"is_featured" json:"isFeatured"`
	IsOnline    bool      `bun:"is_online" json:"isOnline"`
	IsPublish   bool      `bun:"is_publish" json:"isPublish"`
	Region      int       `bun:"region,nullzero" json:"region"`
	Latitude    float64   `bun:"latitude,nullzero" json:"latitude"`
	Longitude   float64   `bun:"longitude,nullzero" json:"longitude"`
	Address     string    `bun:"address,nullzero" json:"address"`
	CreatedBy   string    `bun:"created_by,notnull" json:"createdBy"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero" json:"updatedAt"`
}

type EventRequest struct {
	Name        string        `json:"name" validate:"required"`
	StartDate   string        `json:"startDate" validate:"required"`
	EndDate     string        `json:"endDate" validate:"required"`
	Description string        `json:"description" validate:"required"`
	Banner      string        `json:"banner" validate:"required"`
	Category    string        `json:"category" validate:"required"`
	IsFeatured  *bool         `json:"isFeatured" validate:"required"`
	IsOnline    *bool         `json:"isOnline" validate:"required"`
	IsPublish   bool          `json:"isPublish"`
	Slug        string        `json:"slug"`
	Location    EventLocation `json:"location" validate:"required"`
}

type EventLocation struct {
	Region      int       `json:"region"`
	Coordinates []float64 `json:"coordinates"`
	Address     string    `json:"address"`
}
