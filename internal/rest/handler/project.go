package handler

import (
	"net/http"

	"github.com/robalyx/squadpledge/internal/rest/convert"
	"github.com/robalyx/squadpledge/internal/rest/middleware/identity"
	restTypes "github.com/robalyx/squadpledge/internal/rest/types"
	"github.com/robalyx/squadpledge/internal/service"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// ProjectHandler handles project, settlement and rating endpoints.
type ProjectHandler struct {
	projects *service.ProjectService
	ratings  *service.RatingService
	tasks    *service.TaskService
	logger   *zap.Logger
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(engine *service.Engine, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projects: engine.Project(),
		ratings:  engine.Rating(),
		tasks:    engine.Task(),
		logger:   logger,
	}
}

// Create opens a new project.
func (h *ProjectHandler) Create(w http.ResponseWriter, req bunrouter.Request) error {
	var body service.CreateProjectParams
	if err := decode(w, req, &body); err != nil {
		return writeError(w, h.logger, req, err)
	}

	project, err := h.projects.Create(req.Context(), identity.FromContext(req.Context()), body)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusCreated, project)
}

// List returns every project.
func (h *ProjectHandler) List(w http.ResponseWriter, req bunrouter.Request) error {
	projects, err := h.projects.List(req.Context())
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, emptyIfNil(projects))
}

// Get returns a project.
func (h *ProjectHandler) Get(w http.ResponseWriter, req bunrouter.Request) error {
	id, err := paramID(req, "id")
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	project, err := h.projects.Get(req.Context(), id)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, project)
}

// Ledger returns the budget view of a project.
func (h *ProjectHandler) Ledger(w http.ResponseWriter, req bunrouter.Request) error {
	id, err := paramID(req, "id")
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	snap, err := h.projects.Ledger(req.Context(), id)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, convert.Ledger(snap))
}

// Activate moves a project to active.
func (h *ProjectHandler) Activate(w http.ResponseWriter, req bunrouter.Request) error {
	id, err := paramID(req, "id")
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	project, err := h.projects.Activate(req.Context(), identity.FromContext(req.Context()), id)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, project)
}

// Complete settles a project.
func (h *ProjectHandler) Complete(w http.ResponseWriter, req bunrouter.Request) error {
	id, err := paramID(req, "id")
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	_, payouts, err := h.projects.Complete(req.Context(), identity.FromContext(req.Context()), id)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, convert.Settlement(id, payouts))
}

// Archive retires a project.
func (h *ProjectHandler) Archive(w http.ResponseWriter, req bunrouter.Request) error {
	id, err := paramID(req, "id")
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	project, err := h.projects.Archive(req.Context(), identity.FromContext(req.Context()), id)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, project)
}

// Payouts returns the settlement of a completed project.
func (h *ProjectHandler) Payouts(w http.ResponseWriter, req bunrouter.Request) error {
	id, err := paramID(req, "id")
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	payouts, err := h.projects.ListPayouts(req.Context(), id)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, convert.Settlement(id, payouts))
}

// Rate records a peer rating.
func (h *ProjectHandler) Rate(w http.ResponseWriter, req bunrouter.Request) error {
	id, err := paramID(req, "id")
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	var body restTypes.RatingRequest
	if err := decode(w, req, &body); err != nil {
		return writeError(w, h.logger, req, err)
	}

	rating, err := h.ratings.Rate(req.Context(), identity.FromContext(req.Context()), id, body.Ratee, body.Rating)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusCreated, rating)
}

// Ratings returns the peer ratings of a project.
func (h *ProjectHandler) Ratings(w http.ResponseWriter, req bunrouter.Request) error {
	id, err := paramID(req, "id")
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	ratings, err := h.ratings.ListPeerRatings(req.Context(), id)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, emptyIfNil(ratings))
}

// ResolveChallenges settles due challenges of a project.
func (h *ProjectHandler) ResolveChallenges(w http.ResponseWriter, req bunrouter.Request) error {
	id, err := paramID(req, "id")
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	resolved, err := h.tasks.ResolveChallenges(req.Context(), id)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, map[string]int{"resolved": resolved})
}
