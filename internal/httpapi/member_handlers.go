package httpapi

import (
	"net/http"
	"strings"

	"sociohub.org/internal/audit"
	"sociohub.org/internal/community"
)

type addMemberRequest struct {
	Community string `json:"community"`
	User      string `json:"user"`
	Role      string `json:"role"`
}

func (a *API) handleMemberCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.addMember(w, r)
	default:
		methodNotAllowed(w, r, http.MethodPost)
	}
}

// handleMemberResource serves DELETE /v1/member/{communityId}/{memberId}.
func (a *API) handleMemberResource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/v1/member/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		respondError(w, r, http.StatusNotFound, codeNotFound, "resource not found")
		return
	}
	a.removeMember(w, r, community.CommunityID(parts[0]), community.MemberID(parts[1]))
}

func (a *API) addMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(r)
	if !ok {
		respondError(w, r, http.StatusUnauthorized, codeNotAuthenticated, "not authenticated")
		return
	}
	var req addMemberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	m, err := a.svc.AddMember(r.Context(), actor,
		community.CommunityID(strings.TrimSpace(req.Community)),
		community.UserID(strings.TrimSpace(req.User)),
		community.RoleID(strings.TrimSpace(req.Role)))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "member.add", map[string]any{
		"member_id":    m.ID,
		"community_id": m.Community,
		"target_user":  m.User,
		"role_id":      m.Role,
	})
	respondData(w, http.StatusCreated, m)
}

func (a *API) removeMember(w http.ResponseWriter, r *http.Request, cid community.CommunityID, mid community.MemberID) {
	actor, ok := actorID(r)
	if !ok {
		respondError(w, r, http.StatusUnauthorized, codeNotAuthenticated, "not authenticated")
		return
	}

	removed, err := a.svc.RemoveMember(r.Context(), actor, cid, mid)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "member.remove", map[string]any{
		"member_id":    removed,
		"community_id": cid,
	})
	respondData(w, http.StatusOK, map[string]any{"removed": removed})
}
