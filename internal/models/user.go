package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID             string    `bun:"id,pk" json:"id"`
	Fullname       string    `bun:"fullname,notnull" json:"fullname"`
	Username       string    `bun:"username,unique,notnull" json:"username"`
	Email          string    `bun:"email,unique,notnull" json:"email"`
	Password       string    `bun:"password,notnull" json:"-"`
	Role           string    `bun:"role,notnull" json:"role"`
	ProfilePicture string    `bun:"profile_picture,nullzero" json:"profilePicture"`
	IsActive       bool      `bun:"is_active" json:"isActive"`
	ActivationCode string    `bun:"activation_code,nullzero" json:"-"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero" json:"updatedAt"`
}

type RegisterRequest struct {
	Fullname        string `json:"fullname" validate:"required"`
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type ActivationRequest struct {
	Code string `json:"code" validate:"required"`
}
