package book

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

/* Fields é o conjunto (possivelmente parcial) de valores que um cliente envia.
 * Ponteiros distinguem "ausente" de "valor zero".
 * A tag `create` define as regras de um registro completo, a tag `validate` as de uma atualização parcial.
 */

// Fields holds client supplied values for a book. A nil pointer means the field was not sent.
type Fields struct {
	Title         *string  `json:"title" create:"required,min=1" validate:"omitnil,min=1"`
	Author        *string  `json:"author" create:"required,min=1" validate:"omitnil,min=1"`
	SuggestedBy   *string  `json:"suggestedBy" create:"required,min=1" validate:"omitnil,min=1"`
	NumberOfPages *int     `json:"numberOfPages" create:"required,min=1" validate:"omitnil,min=1"`
	Price         *float64 `json:"price" create:"required,min=0" validate:"omitnil,min=0"`
	PagesRead     *int     `json:"pagesRead" create:"omitnil,min=0" validate:"omitnil,min=0"`
	Status        *string  `json:"status" create:"required,book_status" validate:"omitnil,book_status"`
	Format        *string  `json:"format" create:"required,book_format" validate:"omitnil,book_format"`
}

var (
	createRules = newValidator("create")
	updateRules = newValidator("validate")
)

func newValidator(tag string) *validator.Validate {
	v := validator.New()
	v.SetTagName(tag)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("book_status", func(fl validator.FieldLevel) bool {
		_, err := ParseStatus(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(fmt.Sprintf("registering book_status validation: %v", err))
	}
	if err := v.RegisterValidation("book_format", func(fl validator.FieldLevel) bool {
		_, err := ParseFormat(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(fmt.Sprintf("registering book_format validation: %v", err))
	}
	return v
}

// Construct builds a new book from a complete set of fields.
// PagesRead defaults to 0. Derived fields are left for ApplySaveInvariants.
func Construct(f Fields) (Book, error) {
	if err := check(createRules, f); err != nil {
		return Book{}, err
	}
	return f.apply(Book{}), nil
}

// Merge overwrites the fields present in f onto a copy of b
func (b Book) Merge(f Fields) (Book, error) {
	if err := check(updateRules, f); err != nil {
		return Book{}, err
	}
	return f.apply(b), nil
}

// apply assumes f already passed validation
func (f Fields) apply(b Book) Book {
	if f.Title != nil {
		b.Title = *f.Title
	}
	if f.Author != nil {
		b.Author = *f.Author
	}
	if f.SuggestedBy != nil {
		b.SuggestedBy = *f.SuggestedBy
	}
	if f.NumberOfPages != nil {
		b.NumberOfPages = *f.NumberOfPages
	}
	if f.Price != nil {
		b.Price = *f.Price
	}
	if f.PagesRead != nil {
		b.PagesRead = *f.PagesRead
	}
	if f.Status != nil {
		b.Status, _ = ParseStatus(*f.Status)
	}
	if f.Format != nil {
		b.Format, _ = ParseFormat(*f.Format)
	}
	return b
}

func check(v *validator.Validate, f Fields) error {
	err := v.Struct(f)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating book fields: %w", err)
	}
	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, FieldError{
			Field:  fe.Field(),
			Reason: reason(fe),
		})
	}
	verr.sort()
	return verr
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return "cannot be empty"
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "book_status":
		return fmt.Sprintf("must be one of %s", joinNames(Statuses))
	case "book_format":
		return fmt.Sprintf("must be one of %s", joinNames(Formats))
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

func joinNames[T fmt.Stringer](values []T) string {
	names := make([]string, 0, len(values))
	for _, v := range values {
		names = append(names, fmt.Sprintf("%q", v.String()))
	}
	return strings.Join(names, ", ")
}
