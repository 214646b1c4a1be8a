package models

// Thesis describes an archived work. Only the identifier is mandatory; the
// record may be sparsely filled. Filepath is an object-storage key pointing
// at externally stored content, never the content itself.
type Thesis struct {
	ID       int64
	Author   *string
	Abstract *string
	Filepath *string
	Year     *int
}
