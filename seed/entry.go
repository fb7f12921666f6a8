package seed

import (
	"github.com/marcelsud/book-tracker/book"
)

/* Entry represents a single book in the seed file
 * Keys follow the JSON names of the API, so a seed entry can be pasted into a POST body
 */
type Entry struct {
	Title         *string  `yaml:"title"`
	Author        *string  `yaml:"author"`
	NumberOfPages *int     `yaml:"numberOfPages"`
	Price         *float64 `yaml:"price"`
	PagesRead     *int     `yaml:"pagesRead"`
	Status        *string  `yaml:"status"`
	Format        *string  `yaml:"format"`
	SuggestedBy   *string  `yaml:"suggestedBy"`
}

// Fields converts the entry into the field set accepted by the book service
func (e Entry) Fields() book.Fields {
	return book.Fields{
		Title:         e.Title,
		Author:        e.Author,
		SuggestedBy:   e.SuggestedBy,
		NumberOfPages: e.NumberOfPages,
		Price:         e.Price,
		PagesRead:     e.PagesRead,
		Status:        e.Status,
		Format:        e.Format,
	}
}

// Preview builds the book the entry would create, with save invariants applied.
// It fails with a *book.ValidationError exactly when the service would.
func (e Entry) Preview() (book.Book, error) {
	b, err := book.Construct(e.Fields())
	if err != nil {
		return book.Book{}, err
	}
	b.ApplySaveInvariants()
	return b, nil
}

// Name is the title, or a placeholder when the entry has none
func (e Entry) Name() string {
	if e.Title == nil || *e.Title == "" {
		return "(untitled)"
	}
	return *e.Title
}
