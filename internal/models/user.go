package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID             uuid.UUID `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Phone          string    `json:"phone"`
	Bio            string    `json:"bio"`
	IsTourOperator bool      `json:"is_tour_operator"`
	CreatedAt      time.Time `bun:",nullzero,default:now()" json:"created_at"`
}

type RefreshToken struct {
	bun.BaseModel `bun:"table:refresh_tokens,alias:rft"`

	ID        uuid.UUID `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `bun:"user_id,type:uuid" json:"user_id"`
	JTI       string    `json:"jti"`
	TokenHash string    `json:"token_hash"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `bun:",nullzero,default:now()" json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
