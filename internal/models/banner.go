package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Banner struct {
	bun.BaseModel `bun:"table:banners"`

	ID        string    `bun:"id,pk" json:"id"`
	Title     string    `bun:"title,notnull" json:"title"`
	Image     string    `bun:"image,notnull" json:"image"`
	IsShow    bool      `bun:"is_show" json:"isShow"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,nullzero" json:"updatedAt"`
}

type BannerRequest struct {
	Title  string `json:"title" validate:"required"`
	Image  string `json:"image" validate:"required"`
	IsShow *bool  `json:"isShow" validate:"required"`
}
