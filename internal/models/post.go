package models

import "time"

// MaxPostLength is the post content limit in runes, counted after trimming.
const MaxPostLength = 280

// Post is a single micropost.
type Post struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	AuthorID  string    `gorm:"size:36;index;not null" json:"author_id"`
	Content   string    `gorm:"size:280;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	DeletedAt *time.Time `gorm:"index" json:"-"` // soft delete
}

// PostWithAuthor is a post joined with its author's public profile,
// as returned by the feed and single-post reads.
type PostWithAuthor struct {
	Post
	Author Profile `json:"author"`
}
