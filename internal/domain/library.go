package domain

import "time"

// Library is a physical library holding shelf books through dated join rows.
type Library struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LibraryBook is the join row between a Library and a ShelfBook.
// It has its own identity and records when the book was added.
type LibraryBook struct {
	ID        string    `json:"id"`
	LibraryID string    `json:"library_id"`
	BookID    string    `json:"book_id"`
	DateAdded time.Time `json:"date_added"`
}

// Librarian assigns a user to a library. Each library has exactly one
// librarian and a user manages at most one library.
type Librarian struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	LibraryID string    `json:"library_id"`
	CreatedAt time.Time `json:"created_at"`
}
