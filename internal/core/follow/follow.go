package follow

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Follow is a directed edge: UserID follows AuthorID. The pair is unique.
type Follow struct {
	ID        uuid.UUID `gorm:"primaryKey;type:char(36)"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_user_author"`
	AuthorID  uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_user_author;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.Must(uuid.NewV4())
	}
	return nil
}
