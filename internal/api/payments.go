package api

import (
	"errors"
	"math"
	"net/http"

	"bookyard/internal/database"
	"bookyard/internal/models"
)

// handleCreatePaymentIntent forwards the amount to the payment processor in
// minor units (price x 100) and returns the client-side secret.
func (s *Server) handleCreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	if s.intents == nil {
		writeError(w, http.StatusServiceUnavailable, "payments are not configured")
		return
	}

	var body struct {
		Price float64 `json:"price"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Price <= 0 {
		writeError(w, http.StatusBadRequest, "price must be positive")
		return
	}

	amountMinor := int64(math.Round(body.Price * 100))
	clientSecret, err := s.intents.CreateIntent(r.Context(), amountMinor, s.cfg.Payments.Currency)
	if err != nil {
		s.logger.Error().Err(err).Str("request_id", requestID(r.Context())).Msg("create payment intent")
		writeError(w, http.StatusBadGateway, "payment processor error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"clientSecret": clientSecret})
}

// handleSettlePayment records a completed payment and marks the booking and
// the book paid in one transaction. Unknown booking or book ids fail loudly
// instead of fabricating stub records.
func (s *Server) handleSettlePayment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		BookingID     int64  `json:"bookingId"`
		ItemID        int64  `json:"itemId"`
		TransactionID string `json:"transactionId"`
		AmountCents   int64  `json:"amountCents"`
		BuyerEmail    string `json:"buyerEmail"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	switch {
	case body.BookingID <= 0:
		writeError(w, http.StatusBadRequest, "bookingId is required")
		return
	case body.ItemID <= 0:
		writeError(w, http.StatusBadRequest, "itemId is required")
		return
	case body.TransactionID == "":
		writeError(w, http.StatusBadRequest, "transactionId is required")
		return
	}

	payment := &models.Payment{
		BookingID:     body.BookingID,
		ItemID:        body.ItemID,
		TransactionID: body.TransactionID,
		AmountCents:   body.AmountCents,
		BuyerEmail:    body.BuyerEmail,
	}
	if err := s.db.SettlePayment(r.Context(), payment); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "booking or book not found")
			return
		}
		s.serverError(w, r, err, "settle payment")
		return
	}
	writeJSON(w, http.StatusOK, payment)
}
