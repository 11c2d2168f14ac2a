package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/useradmin/internal/common"
	"github.com/dmitrijs2005/useradmin/internal/server/accounts"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed form")
		return
	}

	email, password := r.PostFormValue("email"), r.PostFormValue("password")
	if email == "" || password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	token, err := s.accounts.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		s.logger.Error(r.Context(), "login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.opts.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// logout revokes whatever token the request carries and clears the cookie.
// It succeeds without a token.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if tok := tokenFromRequest(r); tok != "" {
		s.accounts.Logout(r.Context(), tok)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, messageBody{Message: "Logged out"})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed form")
		return
	}

	a, err := s.accounts.Register(r.Context(), accounts.RegisterInput{
		Name:        r.PostFormValue("name"),
		Email:       r.PostFormValue("email"),
		Password:    r.PostFormValue("password"),
		Address:     r.PostFormValue("address"),
		PhoneNumber: r.PostFormValue("phone_number"),
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeError(w, http.StatusConflict, "Email already registered")
			return
		}
		if writeServiceError(w, err, "Not found") {
			s.logger.Error(r.Context(), "register failed", "error", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"id": a.ID, "message": "Account created"})
}

// references serves the bootstrap credential list.
func (s *Server) references(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.accounts.References())
}
