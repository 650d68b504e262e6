package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const (
	PostStateDraft     = "draft"
	PostStatePublished = "published"
)

type Post struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"size:1024;not null" json:"description"`
	Tags        Tags       `gorm:"type:text" json:"tags"`
	Body        string     `gorm:"type:text;not null" json:"body"`
	AuthorID    string     `gorm:"size:36;not null;index" json:"author_id"`
	State       string     `gorm:"size:16;not null;index" json:"state"`
	ReadCount   int64      `gorm:"not null;default:0" json:"read_count"`
	ReadingTime int        `gorm:"not null;default:0" json:"reading_time"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

func (p *Post) IsPublished() bool {
	return p.State == PostStatePublished
}

// TagSeparator delimits tags in the stored column. A tag never contains it.
const TagSeparator = ","

// Tags is stored as ",a,b," so that one element matches LIKE '%,a,%' and
// substring searches only ever see tag text and separators.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if len(t) == 0 {
		return "", nil
	}
	for _, tag := range t {
		if strings.Contains(tag, TagSeparator) {
			return nil, fmt.Errorf("tag %q contains %q", tag, TagSeparator)
		}
	}
	return TagSeparator + strings.Join(t, TagSeparator) + TagSeparator, nil
}

func (t *Tags) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("scan tags: unsupported type %T", src)
	}

	raw = strings.Trim(raw, TagSeparator)
	if raw == "" {
		*t = Tags{}
		return nil
	}
	*t = strings.Split(raw, TagSeparator)
	return nil
}
