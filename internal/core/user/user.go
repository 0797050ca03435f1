package user

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// User is an author account. Username is the public handle.
type User struct {
	ID        uuid.UUID `gorm:"primaryKey;type:char(36)"`
	FirstName string    `gorm:"type:varchar(150)"`
	LastName  string    `gorm:"type:varchar(150)"`
	Username  string    `gorm:"type:varchar(150);uniqueIndex;not null"`
	Password  string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.Must(uuid.NewV4())
	}
	return nil
}

func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}
