package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account of any role
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"Id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name      string    `gorm:"not null" json:"Name" example:"Jane Doe"`
	Age       string    `gorm:"type:varchar(10);not null" json:"Age" example:"34"`
	Email     string    `gorm:"uniqueIndex;not null" json:"Email" example:"jane@example.org"`
	Password  string    `gorm:"not null" json:"-"`
	Role      Role      `gorm:"type:user_role;not null;default:Sponsor" json:"Role" example:"Sponsor"`
	CreatedAt time.Time `json:"CreatedAt"`
	UpdatedAt time.Time `json:"UpdatedAt"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	newIDIfNil(&u.ID)
	if u.Role == "" {
		u.Role = RoleSponsor
	}
	return nil
}

// UserSnapshot is the public subset returned on login
type UserSnapshot struct {
	Name  string `json:"Name"`
	Age   string `json:"Age"`
	Email string `json:"Email"`
	Role  Role   `json:"Role"`
}

func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{Name: u.Name, Age: u.Age, Email: u.Email, Role: u.Role}
}

// PlaceholderEmail builds the filler address used for users created from
// payment metadata, e.g. sponsor-550e8400@example.com
func PlaceholderEmail(kind string, id uuid.UUID) string {
	return fmt.Sprintf("%s-%s@%s", kind, id.String()[:placeholderEmailIDPrefix], placeholderEmailDomain)
}
