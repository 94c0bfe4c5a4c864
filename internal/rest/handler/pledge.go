package handler

import (
	"net/http"

	"github.com/robalyx/squadpledge/internal/rest/middleware/identity"
	restTypes "github.com/robalyx/squadpledge/internal/rest/types"
	"github.com/robalyx/squadpledge/internal/service"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// PledgeHandler handles pledge endpoints.
type PledgeHandler struct {
	pledges *service.PledgeService
	logger  *zap.Logger
}

// NewPledgeHandler creates a new pledge handler.
func NewPledgeHandler(engine *service.Engine, logger *zap.Logger) *PledgeHandler {
	return &PledgeHandler{
		pledges: engine.Pledge(),
		logger:  logger,
	}
}

// Create pledges hours to a task or the pool of a project.
func (h *PledgeHandler) Create(w http.ResponseWriter, req bunrouter.Request) error {
	projectID, err := paramID(req, "id")
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	var body restTypes.PledgeRequest
	if err := decode(w, req, &body); err != nil {
		return writeError(w, h.logger, req, err)
	}

	target := service.PledgeTarget{TaskID: body.TaskID, Pool: body.Pool}
	pledge, err := h.pledges.Pledge(req.Context(), identity.FromContext(req.Context()), projectID, target, body.Amount)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusCreated, pledge)
}

// List returns the pledges of a project.
func (h *PledgeHandler) List(w http.ResponseWriter, req bunrouter.Request) error {
	projectID, err := paramID(req, "id")
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	pledges, err := h.pledges.List(req.Context(), projectID)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, emptyIfNil(pledges))
}

// Get returns a pledge.
func (h *PledgeHandler) Get(w http.ResponseWriter, req bunrouter.Request) error {
	id, err := paramID(req, "id")
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	pledge, err := h.pledges.Get(req.Context(), id)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, pledge)
}

// Confirm commits a pending pledge.
func (h *PledgeHandler) Confirm(w http.ResponseWriter, req bunrouter.Request) error {
	id, err := paramID(req, "id")
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	pledge, err := h.pledges.Confirm(req.Context(), identity.FromContext(req.Context()), id)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, pledge)
}

// Reassign moves a pool pledge onto a task.
func (h *PledgeHandler) Reassign(w http.ResponseWriter, req bunrouter.Request) error {
	id, err := paramID(req, "id")
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	var body restTypes.ReassignRequest
	if err := decode(w, req, &body); err != nil {
		return writeError(w, h.logger, req, err)
	}

	pledge, err := h.pledges.Reassign(req.Context(), identity.FromContext(req.Context()), id, body.TaskID)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, pledge)
}
