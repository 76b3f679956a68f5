package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"sociohub.org/internal/audit"
)

type createRoleRequest struct {
	Name string `json:"name"`
}

func (a *API) handleRoleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.createRole(w, r)
	case http.MethodGet:
		a.listRoles(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) createRole(w http.ResponseWriter, r *http.Request) {
	var req createRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	role, err := a.svc.CreateRole(r.Context(), req.Name)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "role.create", map[string]any{"role_id": role.ID, "name": role.Name})
	respondData(w, http.StatusCreated, role)
}

func (a *API) listRoles(w http.ResponseWriter, r *http.Request) {
	roles, meta, err := a.svc.ListRoles(r.Context(), pageParam(r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondPage(w, roles, meta)
}

// pageParam reads ?page=N, tolerating absence and garbage: anything that is
// not a positive integer means page one.
func pageParam(r *http.Request) int {
	raw := strings.TrimSpace(r.URL.Query().Get("page"))
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
