package httpapi

import (
	"errors"
	"net/http"
	"time"

	"sociohub.org/internal/audit"
	"sociohub.org/internal/auth"
	"sociohub.org/internal/community"
)

const tokenTTL = 24 * time.Hour

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string          `json:"token"`
	User  *community.User `json:"user"`
}

func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	u, err := a.svc.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		// A taken email gets its dedicated code so signup forms can react.
		if errors.Is(err, community.ErrConflict) {
			respondError(w, r, http.StatusBadRequest, codeEmailExists, errMessage(err))
			return
		}
		handleServiceError(w, r, err)
		return
	}

	token, err := auth.GenerateToken(string(u.ID), tokenTTL)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, codeInternal, "internal error")
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.signup", map[string]any{"user_id": u.ID, "email": u.Email})
	respondData(w, http.StatusCreated, authResponse{Token: token, User: u})
}

func (a *API) handleSignin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req signinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	u, err := a.svc.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	token, err := auth.GenerateToken(string(u.ID), tokenTTL)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, codeInternal, "internal error")
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.signin", map[string]any{"user_id": u.ID})
	respondData(w, http.StatusOK, authResponse{Token: token, User: u})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	id, ok := actorID(r)
	if !ok {
		respondError(w, r, http.StatusUnauthorized, codeNotAuthenticated, "not authenticated")
		return
	}
	u, err := a.svc.GetUser(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, u)
}
