package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/book-tracker/book"
)

/*
* Representa o livro na camada web, por isso ele tem as tags json.
* Ponteiros distinguem campo ausente de valor zero; campos desconhecidos (finished, _id, datas) são ignorados.
 */
type bookRequest struct {
	Title         *string  `json:"title"`
	Author        *string  `json:"author"`
	NumberOfPages *int     `json:"numberOfPages"`
	Status        *string  `json:"status"`
	Price         *float64 `json:"price"`
	PagesRead     *int     `json:"pagesRead"`
	Format        *string  `json:"format"`
	SuggestedBy   *string  `json:"suggestedBy"`
}

func (br bookRequest) fields() book.Fields {
	return book.Fields{
		Title:         br.Title,
		Author:        br.Author,
		SuggestedBy:   br.SuggestedBy,
		NumberOfPages: br.NumberOfPages,
		Price:         br.Price,
		PagesRead:     br.PagesRead,
		Status:        br.Status,
		Format:        br.Format,
	}
}

/*
* Representa o livro na camada web
 */
type bookResponse struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	NumberOfPages int       `json:"numberOfPages"`
	Status        string    `json:"status"`
	Price         float64   `json:"price"`
	PagesRead     int       `json:"pagesRead"`
	Format        string    `json:"format"`
	SuggestedBy   string    `json:"suggestedBy"`
	Finished      bool      `json:"finished"`
	CurrentlyAt   int       `json:"currentlyAt"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func newBookResponse(b book.Book) bookResponse {
	return bookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		NumberOfPages: b.NumberOfPages,
		Status:        b.Status.String(),
		Price:         b.Price,
		PagesRead:     b.PagesRead,
		Format:        b.Format.String(),
		SuggestedBy:   b.SuggestedBy,
		Finished:      b.Finished,
		CurrentlyAt:   b.ProgressPercent(),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

type statsResponse struct {
	TotalBooksRead int `json:"totalBooksRead"`
	TotalPages     int `json:"totalPages"`
	TotalBooks     int `json:"totalBooks"`
}

type messageResponse struct {
	Message string `json:"message"`
	Error   any    `json:"error,omitempty"`
}

func getBooks(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		all, err := bookService.List(r.Context())
		if err != nil {
			writeError(w, r, "Error fetching books", err)
			return
		}
		result := make([]bookResponse, 0, len(all))
		for _, b := range all {
			result = append(result, newBookResponse(b))
		}
		writeJSON(w, http.StatusOK, result)
	})
}

func getStats(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st, err := bookService.Stats(r.Context())
		if err != nil {
			writeError(w, r, "Error fetching statistics", err)
			return
		}
		writeJSON(w, http.StatusOK, statsResponse{
			TotalBooksRead: st.TotalBooksRead,
			TotalPages:     st.TotalPages,
			TotalBooks:     st.TotalBooks,
		})
	})
}

func getBook(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := bookService.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, "Error fetching book", err)
			return
		}
		writeJSON(w, http.StatusOK, newBookResponse(b))
	})
}

func postBook(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var br bookRequest
		err := json.NewDecoder(r.Body).Decode(&br)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Error creating book", Error: err.Error()})
			return
		}
		b, err := bookService.Create(r.Context(), br.fields())
		if err != nil {
			writeError(w, r, "Error creating book", err)
			return
		}
		writeJSON(w, http.StatusCreated, newBookResponse(b))
	})
}

func putBook(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var br bookRequest
		err := json.NewDecoder(r.Body).Decode(&br)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Error updating book", Error: err.Error()})
			return
		}
		b, err := bookService.Update(r.Context(), chi.URLParam(r, "id"), br.fields())
		if err != nil {
			writeError(w, r, "Error updating book", err)
			return
		}
		writeJSON(w, http.StatusOK, newBookResponse(b))
	})
}

func deleteBook(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := bookService.Delete(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, "Error deleting book", err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Book deleted successfully"})
	})
}

// writeError maps service errors to 404, 400 or 500
func writeError(w http.ResponseWriter, r *http.Request, message string, err error) {
	var verr *book.ValidationError
	switch {
	case errors.Is(err, book.ErrNotFound):
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "Book not found"})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: message, Error: verr})
	default:
		logger := httplog.LogEntry(r.Context())
		logger.Error().Err(err).Msg(message)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: message, Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
