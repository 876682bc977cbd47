package domain

import "time"

// Category is an optional grouping for shelf books. Deleting a category
// clears the reference on its books rather than removing them.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ShelfBook represents a physical book on the bookshelf. Unlike catalog
// books, the author is free text and the ISBN is the natural key.
type ShelfBook struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	PublishedYear int       `json:"published_year"`
	ISBN          string    `json:"isbn"`
	CategoryID    string    `json:"category_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ShelfBookListOptions describes filtering and ordering for shelf listings.
type ShelfBookListOptions struct {
	CategoryID string

	// Search is OR-combined over title and author.
	Search string

	// OrderBy is one of "title", "author", "published_year".
	OrderBy    string
	Descending bool
}

// ShelfBookOrderFields lists the sort keys accepted on shelf listings.
var ShelfBookOrderFields = map[string]bool{
	"title":          true,
	"author":         true,
	"published_year": true,
}
