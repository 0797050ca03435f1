package comment

import (
	"time"

	"blogfeed/internal/core/user"

	"github.com/gofrs/uuid"
)

// Comment belongs to exactly one post and is never edited by the core.
type Comment struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	PostID   uint      `gorm:"index;not null"`
	AuthorID uuid.UUID `gorm:"type:char(36);index;not null"`
	Author   user.User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Text     string    `gorm:"type:text;not null"`
	Created  time.Time `gorm:"index;not null"`
}
