package api

import (
	"errors"
	"net/http"
	"strings"

	"bookyard/internal/database"
	"bookyard/internal/models"
)

// handleBookingsByBuyer lists a buyer's reservations. The query email must
// match the token identity; a buyer cannot read someone else's bookings.
func (s *Server) handleBookingsByBuyer(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	if email != authEmail(r.Context()) {
		writeError(w, http.StatusForbidden, "Forbidden Access")
		return
	}

	bookings, err := s.db.GetBookingsByBuyer(r.Context(), email)
	if err != nil {
		s.serverError(w, r, err, "list bookings")
		return
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	booking, err := s.db.GetBooking(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "booking not found")
			return
		}
		s.serverError(w, r, err, "get booking")
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ItemID     int64  `json:"itemId"`
		BuyerEmail string `json:"buyerEmail"`
		PriceCents int64  `json:"priceCents"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	body.BuyerEmail = strings.TrimSpace(body.BuyerEmail)
	switch {
	case body.ItemID <= 0:
		writeError(w, http.StatusBadRequest, "itemId is required")
		return
	case body.BuyerEmail == "":
		writeError(w, http.StatusBadRequest, "buyerEmail is required")
		return
	}

	booking := &models.Booking{
		ItemID:     body.ItemID,
		BuyerEmail: body.BuyerEmail,
		PriceCents: body.PriceCents,
	}
	if err := s.db.CreateBooking(r.Context(), booking); err != nil {
		if errors.Is(err, database.ErrDuplicateBooking) {
			writeError(w, http.StatusConflict, "You have already booked this item")
			return
		}
		s.serverError(w, r, err, "create booking")
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
