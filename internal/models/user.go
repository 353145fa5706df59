// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a marketplace account. The user's id doubles as the caller
// identity threaded through every engine operation; marketplace roles
// (artist, verifier) live in the engine's role store, not here.
type User struct {
	BaseModel
	Username     string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	Status       UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	ProfileData  JSONB      `json:"profile_data" gorm:"type:jsonb"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	// Relationships
	Deposits []Deposit `json:"deposits,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
