// internal/assets/postgres.go
package assets

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/javajoker/artmarket-backend/internal/engine"
	"github.com/javajoker/artmarket-backend/internal/models"
)

// uniqueViolation is the postgres error code for duplicate keys.
const uniqueViolation = "23505"

// isUniqueViolation matches duplicate-key failures from either postgres
// driver (pgx under gorm, lib/pq elsewhere).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

// PostgresRegistry is the durable asset registry. Each token is one
// ownership row; transfers append the previous holder to the provenance
// trail.
type PostgresRegistry struct {
	db *gorm.DB
}

func NewPostgresRegistry(db *gorm.DB) *PostgresRegistry {
	return &PostgresRegistry{db: db}
}

func (r *PostgresRegistry) Mint(owner uuid.UUID, tokenID uint64) error {
	row := &models.TokenOwnership{
		TokenID: tokenID,
		Owner:   owner,
	}
	if err := r.db.Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("token %d already minted", tokenID)
		}
		return fmt.Errorf("mint token %d: %w", tokenID, err)
	}
	return nil
}

func (r *PostgresRegistry) OwnerOf(tokenID uint64) (uuid.UUID, error) {
	var row models.TokenOwnership
	if err := r.db.First(&row, "token_id = ?", tokenID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, fmt.Errorf("token %d not minted", tokenID)
		}
		return uuid.Nil, fmt.Errorf("owner lookup for token %d: %w", tokenID, err)
	}
	return row.Owner, nil
}

func (r *PostgresRegistry) Transfer(from, to uuid.UUID, tokenID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var row models.TokenOwnership
		if err := tx.First(&row, "token_id = ?", tokenID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("token %d not minted", tokenID)
			}
			return fmt.Errorf("transfer lookup for token %d: %w", tokenID, err)
		}
		if row.Owner != from {
			return fmt.Errorf("token %d is not held by %s", tokenID, from)
		}

		row.Provenance = append(row.Provenance, from.String())
		row.Owner = to
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("transfer token %d: %w", tokenID, err)
		}
		return nil
	})
}

// PostgresRoleStore persists role grants.
type PostgresRoleStore struct {
	db *gorm.DB
}

func NewPostgresRoleStore(db *gorm.DB) *PostgresRoleStore {
	return &PostgresRoleStore{db: db}
}

func (s *PostgresRoleStore) HasRole(identity uuid.UUID, role engine.Role) (bool, error) {
	var count int64
	err := s.db.Model(&models.RoleGrant{}).
		Where("identity = ? AND role = ?", identity, string(role)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("role lookup: %w", err)
	}
	return count > 0, nil
}

func (s *PostgresRoleStore) GrantRole(identity uuid.UUID, role engine.Role) error {
	grant := &models.RoleGrant{
		Identity: identity,
		Role:     string(role),
	}
	if err := s.db.Create(grant).Error; err != nil {
		if isUniqueViolation(err) {
			// Grants are permanent and idempotent at the store level.
			return nil
		}
		return fmt.Errorf("grant role: %w", err)
	}
	return nil
}
