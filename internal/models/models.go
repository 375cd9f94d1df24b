package models

import (
	"time"
)

// Article is a piece of content managed through the admin interface and
// served on the public site. Category is a soft reference: it stores the
// name of a Category, not its ID, and category renames rewrite it.
type Article struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Summary   string    `db:"summary" json:"summary"`
	Category  string    `db:"category" json:"category"`
	Author    string    `db:"author" json:"author"`
	ImageURL  string    `db:"image_url" json:"image_url"`
	ImageData string    `db:"image_data" json:"image_data"` // base64 data URI, optional
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	Views     int64     `db:"views" json:"views"`
	Shares    int64     `db:"shares" json:"shares"`
	Published bool      `db:"published" json:"published"`
}

// ArticleUpdate carries a partial update. Nil fields are left untouched.
// Summary is intentionally absent: it is system-generated only.
type ArticleUpdate struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Category  *string `json:"category"`
	Author    *string `json:"author"`
	ImageURL  *string `json:"image_url"`
	ImageData *string `json:"image_data"`
	Published *bool   `json:"published"`
}

type Category struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ArticleFilter narrows List results. Zero values mean "no filter".
type ArticleFilter struct {
	Category  string
	Published *bool
	Limit     int
}

// StatusCheck is a client heartbeat record.
type StatusCheck struct {
	ID         string    `db:"id" json:"id"`
	ClientName string    `db:"client_name" json:"client_name"`
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
}
