// internal/models/registry.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TokenOwnership is one row per minted token in the durable asset registry.
// Provenance accumulates the identities that held the token before the
// current owner, oldest first.
type TokenOwnership struct {
	TokenID    uint64         `json:"token_id" gorm:"primaryKey;autoIncrement:false"`
	Owner      uuid.UUID      `json:"owner" gorm:"type:uuid;not null;index"`
	Provenance pq.StringArray `json:"provenance" gorm:"type:text[]"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// RoleGrant records a capability held by an identity. Grants are permanent;
// the unique index makes double-granting a no-op at the store level.
type RoleGrant struct {
	BaseModel
	Identity uuid.UUID `json:"identity" gorm:"type:uuid;not null;uniqueIndex:idx_role_grants_identity_role"`
	Role     string    `json:"role" gorm:"size:20;not null;uniqueIndex:idx_role_grants_identity_role"`
}
