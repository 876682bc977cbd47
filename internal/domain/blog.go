package domain

import "time"

// Post is a blog post. Only the stored author may update or delete it.
type Post struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	AuthorID      string    `json:"author_id"`
	PublishedDate time.Time `json:"published_date"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Comment is a reader comment on a post. Only the stored author may
// update or delete it.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostListOptions describes filtering and ordering for post listings.
type PostListOptions struct {
	AuthorID string
	TagName  string

	// Search is a case-insensitive contains match over title and content.
	Search string

	// Newest first by default.
	OldestFirst bool
}
