package api

import (
	"fmt"
	"net/http"
	"time"

	"bookyard/internal/export"
)

// handleExportBookings streams an xlsx report of all bookings to an admin.
func (s *Server) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.db.GetAllBookings(r.Context())
	if err != nil {
		s.serverError(w, r, err, "export bookings")
		return
	}

	workbook, err := export.BookingsWorkbook(bookings)
	if err != nil {
		s.serverError(w, r, err, "build bookings workbook")
		return
	}
	defer workbook.Close()

	fileName := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	if _, err := workbook.WriteTo(w); err != nil {
		s.logger.Error().Err(err).Str("request_id", requestID(r.Context())).Msg("write bookings workbook")
	}
}
