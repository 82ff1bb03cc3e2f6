package api

import (
	"errors"
	"net/http"
	"strings"

	"bookyard/internal/database"
	"bookyard/internal/models"
)

// handleIssueToken exchanges a known email for a bearer token. An unknown
// email answers 403 with an empty token; the endpoint doubles as a login
// check for the client.
func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	if _, err := s.db.GetUserByEmail(r.Context(), email); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeJSON(w, http.StatusForbidden, map[string]string{"accessToken": ""})
			return
		}
		s.serverError(w, r, err, "lookup user for token")
		return
	}

	token, err := s.tokens.Issue(email)
	if err != nil {
		s.serverError(w, r, err, "issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"accessToken": token})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	body.Email = strings.TrimSpace(body.Email)
	if body.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	if body.Role == "" {
		body.Role = models.RoleBuyer
	}
	if !models.ValidRole(body.Role) {
		writeError(w, http.StatusBadRequest, "unknown role")
		return
	}

	user := &models.User{Email: body.Email, Name: body.Name, Role: body.Role}
	if err := s.db.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "user with this email already exists")
			return
		}
		s.serverError(w, r, err, "create user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleIsAdmin(w http.ResponseWriter, r *http.Request) {
	s.handleRoleCheck(w, r, models.RoleAdmin, "isAdmin")
}

func (s *Server) handleIsSeller(w http.ResponseWriter, r *http.Request) {
	s.handleRoleCheck(w, r, models.RoleSeller, "isSeller")
}

func (s *Server) handleRoleCheck(w http.ResponseWriter, r *http.Request, role, field string) {
	email := r.PathValue("email")
	user, err := s.db.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]bool{field: false})
			return
		}
		s.serverError(w, r, err, "role check")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{field: user.Role == role})
}

func (s *Server) handleListSellers(w http.ResponseWriter, r *http.Request) {
	s.handleListByRole(w, r, models.RoleSeller)
}

func (s *Server) handleListBuyers(w http.ResponseWriter, r *http.Request) {
	s.handleListByRole(w, r, models.RoleBuyer)
}

func (s *Server) handleListByRole(w http.ResponseWriter, r *http.Request, role string) {
	users, err := s.db.GetUsersByRole(r.Context(), role)
	if err != nil {
		s.serverError(w, r, err, "list users")
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleDeleteSeller(w http.ResponseWriter, r *http.Request) {
	s.handleDeleteByRole(w, r, models.RoleSeller)
}

func (s *Server) handleDeleteBuyer(w http.ResponseWriter, r *http.Request) {
	s.handleDeleteByRole(w, r, models.RoleBuyer)
}

func (s *Server) handleDeleteByRole(w http.ResponseWriter, r *http.Request, role string) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.db.DeleteUser(r.Context(), id, role); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		s.serverError(w, r, err, "delete user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleVerifySeller(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.db.SetSellerVerified(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "seller not found")
			return
		}
		s.serverError(w, r, err, "verify seller")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"verified": true})
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	s.logger.Error().Err(err).Str("request_id", requestID(r.Context())).Msg(msg)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
