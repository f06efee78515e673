// models/user.go
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	// AdminUsername is the reserved bootstrap account. It is seeded at
	// startup and can never be deleted.
	AdminUsername = "admin"

	// derivedPasswordSuffix completes the initial password of accounts
	// auto-created from a funcionario name: "<username>1234".
	derivedPasswordSuffix = "1234"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Funcionario  string    `gorm:"size:100;not null" json:"funcionario"`
	Role         string    `gorm:"size:20;default:user" json:"rol"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsAdmin reports whether the account holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DerivedCredentials computes the username and initial password for an
// account created from a funcionario display name: the username is the
// lowercased first whitespace token, the password appends a fixed suffix.
func DerivedCredentials(funcionario string) (username, password string) {
	fields := strings.Fields(funcionario)
	if len(fields) == 0 {
		return "", ""
	}
	username = strings.ToLower(fields[0])
	return username, username + derivedPasswordSuffix
}
