package httpapi

import (
	"net/http"
	"strings"

	"sociohub.org/internal/audit"
	"sociohub.org/internal/community"
)

type createCommunityRequest struct {
	Name string `json:"name"`
}

func (a *API) handleCommunityCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.createCommunity(w, r)
	case http.MethodGet:
		a.listCommunities(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleCommunityScoped dispatches /v1/community/{id}/members, DELETE on
// /v1/community/{id}, and the authenticated me/owner and me/member listings.
func (a *API) handleCommunityScoped(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/community/")

	if r.Method == http.MethodDelete {
		if path == "" || strings.Contains(path, "/") {
			respondError(w, r, http.StatusNotFound, codeNotFound, "resource not found")
			return
		}
		a.deleteCommunity(w, r, community.CommunityID(path))
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet, http.MethodDelete)
		return
	}

	switch path {
	case "me/owner":
		a.ownedCommunities(w, r)
		return
	case "me/member":
		a.joinedCommunities(w, r)
		return
	}

	if id, ok := strings.CutSuffix(path, "/members"); ok && id != "" && !strings.Contains(id, "/") {
		a.listMembers(w, r, community.CommunityID(id))
		return
	}
	respondError(w, r, http.StatusNotFound, codeNotFound, "resource not found")
}

func (a *API) createCommunity(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(r)
	if !ok {
		respondError(w, r, http.StatusUnauthorized, codeNotAuthenticated, "not authenticated")
		return
	}
	var req createCommunityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	c, err := a.svc.CreateCommunity(r.Context(), actor, req.Name)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "community.create", map[string]any{
		"community_id": c.ID,
		"slug":         c.Slug,
	})
	w.Header().Set("Location", "/v1/community/"+string(c.ID))
	respondData(w, http.StatusCreated, c)
}

func (a *API) deleteCommunity(w http.ResponseWriter, r *http.Request, id community.CommunityID) {
	actor, ok := actorID(r)
	if !ok {
		respondError(w, r, http.StatusUnauthorized, codeNotAuthenticated, "not authenticated")
		return
	}
	if err := a.svc.DeleteCommunity(r.Context(), actor, id); err != nil {
		handleServiceError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "community.delete", map[string]any{"community_id": id})
	respondData(w, http.StatusOK, map[string]any{"removed": id})
}

func (a *API) listCommunities(w http.ResponseWriter, r *http.Request) {
	cs, meta, err := a.svc.ListCommunities(r.Context(), pageParam(r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondPage(w, cs, meta)
}

func (a *API) listMembers(w http.ResponseWriter, r *http.Request, id community.CommunityID) {
	ms, meta, err := a.svc.ListMembers(r.Context(), id, pageParam(r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondPage(w, ms, meta)
}

func (a *API) ownedCommunities(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(r)
	if !ok {
		respondError(w, r, http.StatusUnauthorized, codeNotAuthenticated, "not authenticated")
		return
	}
	cs, meta, err := a.svc.OwnedCommunities(r.Context(), actor, pageParam(r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondPage(w, cs, meta)
}

func (a *API) joinedCommunities(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(r)
	if !ok {
		respondError(w, r, http.StatusUnauthorized, codeNotAuthenticated, "not authenticated")
		return
	}
	cs, meta, err := a.svc.JoinedCommunities(r.Context(), actor, pageParam(r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondPage(w, cs, meta)
}
