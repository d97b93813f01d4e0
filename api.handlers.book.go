package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// CreateBook adds a new book to the catalog. Admin only.
func (api *APIHandler) CreateBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	book := Book{}
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	caller := GetCallerFromContext(r.Context())

	if err := DecodeCreateBookRequestBody(r, &book); err != nil {
		api.badRequest(w, r, requestID, "failed to create the book", err)
		return
	}

	if err := ValidateCreateBookRequestBody(&book); err != nil {
		api.badRequest(w, r, requestID, "failed to create the book", err)
		return
	}

	book, err := api.bookService.Add(r.Context(), caller, book)
	if err != nil {
		api.failure(w, r, requestID, "failed to create the book", err)
		return
	}
	api.logger.Info("success to create book", zap.String("book.id", book.ID), zap.String("request.id", requestID))
	api.success(w, r, requestID, http.StatusCreated, "Book created successfully.", nil, book)
}

// GetAllBooks lists the catalog subset visible to the caller role.
func (api *APIHandler) GetAllBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	caller := GetCallerFromContext(r.Context())

	books, err := api.bookService.GetAll(r.Context(), caller)
	if err != nil {
		api.failure(w, r, requestID, "failed to get all books", err)
		return
	}
	api.logger.Info("success to get all books", zap.String("request.id", requestID), zap.String("caller.role", string(caller.Role)))
	total := len(books)
	api.success(w, r, requestID, http.StatusOK, "All books fetched successfully.", &total, books)
}

// GetOneBook fetches a single book when visible to the caller.
func (api *APIHandler) GetOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	caller := GetCallerFromContext(r.Context())
	id, ok := api.bookID(w, r, ps, requestID)
	if !ok {
		return
	}

	book, err := api.bookService.GetOne(r.Context(), caller, id)
	if err != nil {
		api.failure(w, r, requestID, "failed to get book", err)
		return
	}
	api.logger.Info("success to get book", zap.String("book.id", id), zap.String("request.id", requestID))
	api.success(w, r, requestID, http.StatusOK, "Book fetched successfully.", nil, book)
}

// CheckoutBook transitions an available book to checked-out on
// behalf of the caller.
func (api *APIHandler) CheckoutBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	caller := GetCallerFromContext(r.Context())
	id, ok := api.bookID(w, r, ps, requestID)
	if !ok {
		return
	}

	book, err := api.bookService.Checkout(r.Context(), caller, id)
	if err != nil {
		api.failure(w, r, requestID, "failed to checkout the book", err)
		return
	}
	api.logger.Info("success to checkout book",
		zap.String("book.id", id),
		zap.String("book.borrower", book.CheckedOutBy),
		zap.String("request.id", requestID),
	)
	api.success(w, r, requestID, http.StatusOK, "Book checked out successfully.", nil, book)
}

// CheckinBook returns a checked-out book and archives the completed loan.
func (api *APIHandler) CheckinBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	caller := GetCallerFromContext(r.Context())
	id, ok := api.bookID(w, r, ps, requestID)
	if !ok {
		return
	}

	book, err := api.bookService.Checkin(r.Context(), caller, id)
	if err != nil {
		api.failure(w, r, requestID, "failed to checkin the book", err)
		return
	}
	api.logger.Info("success to checkin book", zap.String("book.id", id), zap.String("request.id", requestID))
	api.success(w, r, requestID, http.StatusOK, "Book checked in successfully.", nil, book)
}

// ToggleFavoriteBook flips the favorite flag of a book.
func (api *APIHandler) ToggleFavoriteBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	caller := GetCallerFromContext(r.Context())
	id, ok := api.bookID(w, r, ps, requestID)
	if !ok {
		return
	}

	book, err := api.bookService.ToggleFavorite(r.Context(), caller, id)
	if err != nil {
		api.failure(w, r, requestID, "failed to toggle the book favorite flag", err)
		return
	}
	api.logger.Info("success to toggle book favorite flag", zap.String("book.id", id), zap.String("request.id", requestID))
	api.success(w, r, requestID, http.StatusOK, "Book favorite flag toggled successfully.", nil, book)
}

// GetBookHistory returns the completed loans of a book.
func (api *APIHandler) GetBookHistory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	caller := GetCallerFromContext(r.Context())
	id, ok := api.bookID(w, r, ps, requestID)
	if !ok {
		return
	}

	history, err := api.bookService.GetHistory(r.Context(), caller, id)
	if err != nil {
		api.failure(w, r, requestID, "failed to get the book history", err)
		return
	}
	api.logger.Info("success to get book history", zap.String("book.id", id), zap.String("request.id", requestID))
	total := len(history)
	api.success(w, r, requestID, http.StatusOK, "Book history fetched successfully.", &total, history)
}

// ClearBookHistory empties the borrow history of a book. Admin only.
func (api *APIHandler) ClearBookHistory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	caller := GetCallerFromContext(r.Context())
	id, ok := api.bookID(w, r, ps, requestID)
	if !ok {
		return
	}

	book, err := api.bookService.ClearHistory(r.Context(), caller, id)
	if err != nil {
		api.failure(w, r, requestID, "failed to clear the book history", err)
		return
	}
	api.logger.Info("success to clear book history", zap.String("book.id", id), zap.String("request.id", requestID))
	api.success(w, r, requestID, http.StatusOK, "Book history cleared successfully.", nil, book)
}

// DeleteOneBook removes a book from the catalog. Admin only.
func (api *APIHandler) DeleteOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	caller := GetCallerFromContext(r.Context())
	id, ok := api.bookID(w, r, ps, requestID)
	if !ok {
		return
	}

	if err := api.bookService.Delete(r.Context(), caller, id); err != nil {
		api.failure(w, r, requestID, "failed to delete the book", err)
		return
	}
	api.logger.Info("success to delete book", zap.String("book.id", id), zap.String("request.id", requestID))
	api.success(w, r, requestID, http.StatusOK, "Book deleted successfully.", nil, EmptyData)
}

// DeleteAllBooks removes every book of the catalog. Admin only. Each
// deletion is independent so a failure does not roll back prior ones.
func (api *APIHandler) DeleteAllBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	caller := GetCallerFromContext(r.Context())

	if err := api.bookService.DeleteAll(r.Context(), caller); err != nil {
		api.failure(w, r, requestID, "failed to delete all books", err)
		return
	}
	api.logger.Info("success to delete all books", zap.String("request.id", requestID))
	api.success(w, r, requestID, http.StatusOK, "All books deleted successfully.", nil, EmptyData)
}

// bookID validates the book id path parameter. On failure it sends the
// error response itself and reports false.
func (api *APIHandler) bookID(w http.ResponseWriter, r *http.Request, ps httprouter.Params, requestID string) (string, bool) {
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id, BookIDPrefix); !ok {
		api.logger.Error("book id provided is not valid", zap.String("book.id", id), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "book id provided is not valid", EmptyData)
		if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return "", false
	}
	return id, true
}
