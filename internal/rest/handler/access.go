package handler

import (
	"net/http"

	"github.com/robalyx/squadpledge/internal/rest/middleware/identity"
	restTypes "github.com/robalyx/squadpledge/internal/rest/types"
	"github.com/robalyx/squadpledge/internal/service"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// AccessHandler handles role and approval endpoints.
type AccessHandler struct {
	access *service.AccessService
	logger *zap.Logger
}

// NewAccessHandler creates a new access handler.
func NewAccessHandler(engine *service.Engine, logger *zap.Logger) *AccessHandler {
	return &AccessHandler{
		access: engine.Access(),
		logger: logger,
	}
}

// Initialize gives the caller their first role.
func (h *AccessHandler) Initialize(w http.ResponseWriter, req bunrouter.Request) error {
	access, err := h.access.InitializeAccessControl(req.Context(), identity.FromContext(req.Context()))
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, access)
}

// Me returns the caller's resolved access.
func (h *AccessHandler) Me(w http.ResponseWriter, req bunrouter.Request) error {
	access, err := h.access.ResolveAccess(req.Context(), identity.FromContext(req.Context()))
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, access)
}

// RequestApproval files the caller's access request.
func (h *AccessHandler) RequestApproval(w http.ResponseWriter, req bunrouter.Request) error {
	approval, already, err := h.access.RequestApproval(req.Context(), identity.FromContext(req.Context()))
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	status := http.StatusCreated
	if already {
		status = http.StatusOK
	}

	return writeJSON(w, status, restTypes.RequestApprovalResponse{
		Status:           approval.Status,
		AlreadyRequested: already,
	})
}

// ListApprovals returns every access request.
func (h *AccessHandler) ListApprovals(w http.ResponseWriter, req bunrouter.Request) error {
	approvals, err := h.access.ListApprovals(req.Context(), identity.FromContext(req.Context()))
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, emptyIfNil(approvals))
}

// SetApproval decides an access request.
func (h *AccessHandler) SetApproval(w http.ResponseWriter, req bunrouter.Request) error {
	var body restTypes.SetApprovalRequest
	if err := decode(w, req, &body); err != nil {
		return writeError(w, h.logger, req, err)
	}

	approval, err := h.access.SetApproval(req.Context(), identity.FromContext(req.Context()),
		req.Param("identity"), body.Status)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, approval)
}

// AssignRole changes a member's role.
func (h *AccessHandler) AssignRole(w http.ResponseWriter, req bunrouter.Request) error {
	var body restTypes.AssignRoleRequest
	if err := decode(w, req, &body); err != nil {
		return writeError(w, h.logger, req, err)
	}

	target := req.Param("identity")
	if err := h.access.AssignRole(req.Context(), identity.FromContext(req.Context()), target, body.Role); err != nil {
		return writeError(w, h.logger, req, err)
	}

	access, err := h.access.ResolveAccess(req.Context(), target)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, access)
}
