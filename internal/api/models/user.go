package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string `gorm:"uniqueIndex;size:32;not null" json:"username"`
	Email     string `gorm:"uniqueIndex;size:64;not null" json:"email"`
	FirstName string `gorm:"size:32" json:"first_name"`
	LastName  string `gorm:"size:64" json:"last_name"`
	Bio       string `gorm:"type:text" json:"bio"`
	Role      Role   `gorm:"size:10;default:'user';not null" json:"role"`

	// ConfirmationCode holds a bcrypt hash of the last code emailed to the
	// user. Empty when no code has been issued yet.
	ConfirmationCode string `gorm:"column:confirmation_code" json:"-"`

	IsSuperuser bool `gorm:"default:false;not null" json:"-"`
	IsStaff     bool `gorm:"default:false;not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

// BeforeSave keeps the role and staff columns consistent: superusers are
// always admins, and only admins carry the staff flag.
func (user *User) BeforeSave(tx *gorm.DB) (err error) {
	if user.Role == "" {
		user.Role = RoleUser
	}
	if user.IsSuperuser {
		user.Role = RoleAdmin
	}
	user.IsStaff = user.Role == RoleAdmin
	return
}

func (User) TableName() string {
	return "users"
}
