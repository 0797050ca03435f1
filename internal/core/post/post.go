package post

import (
	"time"

	"blogfeed/internal/core/group"
	"blogfeed/internal/core/user"

	"github.com/gofrs/uuid"
)

// DefaultSummaryLength is the number of runes String keeps.
const DefaultSummaryLength = 15

// Post is a single entry. ID is auto-incremented and doubles as the
// insertion-order tie breaker for posts sharing a PubDate. AuthorID and
// PubDate are written once on insert.
type Post struct {
	ID       uint         `gorm:"primaryKey;autoIncrement"`
	Text     string       `gorm:"type:text;not null"`
	PubDate  time.Time    `gorm:"index;not null"`
	AuthorID uuid.UUID    `gorm:"type:char(36);index;not null"`
	Author   user.User    `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	GroupID  *uuid.UUID   `gorm:"type:char(36);index"`
	Group    *group.Group `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL"`
	Image    string       `gorm:"type:varchar(255)"`
}

// Summary returns at most n runes of the post text.
func (p Post) Summary(n int) string {
	r := []rune(p.Text)
	if n < 0 || len(r) <= n {
		return p.Text
	}
	return string(r[:n])
}

func (p Post) String() string { return p.Summary(DefaultSummaryLength) }
