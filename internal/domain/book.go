package domain

import "time"

// Book represents a catalog book belonging to one Author.
type Book struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	PublicationYear int       `json:"publication_year"`
	AuthorID        string    `json:"author_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BookListOptions describes filtering, searching and ordering for catalog
// book listings. Zero values mean "no constraint".
type BookListOptions struct {
	// Equality filters.
	AuthorID        string
	PublicationYear int

	// Title is a case-insensitive contains match on the title.
	Title string

	// Search is OR-combined over the searchable fields (title, author name).
	Search string

	// OrderBy is one of "title", "publication_year", "created_at".
	// Descending flips the direction. Default ordering is title ascending.
	OrderBy    string
	Descending bool
}

// BookOrderFields lists the sort keys accepted on book listings.
var BookOrderFields = map[string]bool{
	"title":            true,
	"publication_year": true,
	"created_at":       true,
}
