package api

import (
	"errors"
	"net/http"
	"strings"

	"bookyard/internal/database"
	"bookyard/internal/models"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.GetCategories(r.Context())
	if err != nil {
		s.serverError(w, r, err, "list categories")
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleBooksByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := r.PathValue("id")
	books, err := s.db.GetBooksByCategory(r.Context(), categoryID)
	if err != nil {
		s.serverError(w, r, err, "list books by category")
		return
	}
	s.writeBooks(w, books)
}

func (s *Server) handleBooksBySeller(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	books, err := s.db.GetBooksBySeller(r.Context(), email)
	if err != nil {
		s.serverError(w, r, err, "list books by seller")
		return
	}
	s.writeBooks(w, books)
}

func (s *Server) handleAdvertisedBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.db.GetAdvertisedBooks(r.Context())
	if err != nil {
		s.serverError(w, r, err, "list advertised books")
		return
	}
	s.writeBooks(w, books)
}

func (s *Server) handleReportedBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.db.GetReportedBooks(r.Context())
	if err != nil {
		s.serverError(w, r, err, "list reported books")
		return
	}
	s.writeBooks(w, books)
}

func (s *Server) writeBooks(w http.ResponseWriter, books []*models.Book) {
	if books == nil {
		books = []*models.Book{}
	}
	writeJSON(w, http.StatusOK, books)
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		CategoryID  string `json:"categoryId"`
		SellerEmail string `json:"sellerEmail"`
		PriceCents  int64  `json:"priceCents"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	body.Title = strings.TrimSpace(body.Title)
	body.SellerEmail = strings.TrimSpace(body.SellerEmail)
	switch {
	case body.Title == "":
		writeError(w, http.StatusBadRequest, "title is required")
		return
	case body.CategoryID == "":
		writeError(w, http.StatusBadRequest, "categoryId is required")
		return
	case body.SellerEmail == "":
		writeError(w, http.StatusBadRequest, "sellerEmail is required")
		return
	case body.PriceCents < 0:
		writeError(w, http.StatusBadRequest, "priceCents must not be negative")
		return
	}

	book := &models.Book{
		Title:       body.Title,
		Description: body.Description,
		CategoryID:  body.CategoryID,
		SellerEmail: body.SellerEmail,
		PriceCents:  body.PriceCents,
		Status:      models.BookStatusListed,
	}
	if err := s.db.CreateBook(r.Context(), book); err != nil {
		s.serverError(w, r, err, "create book")
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// handleDeleteBook lets a seller remove a listing, but only their own.
func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.db.DeleteBookOwned(r.Context(), id, authEmail(r.Context())); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "book not found")
			return
		}
		s.serverError(w, r, err, "delete book")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleReportBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.db.SetBookReported(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "book not found")
			return
		}
		s.serverError(w, r, err, "report book")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"reported": true})
}

func (s *Server) handleAdvertiseBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.db.SetBookAdvertised(r.Context(), id, authEmail(r.Context())); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "book not found")
			return
		}
		s.serverError(w, r, err, "advertise book")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"advertised": true})
}

func (s *Server) handleDeleteReportedBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.db.DeleteReportedBook(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "reported book not found")
			return
		}
		s.serverError(w, r, err, "delete reported book")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
