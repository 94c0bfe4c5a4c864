package handler

import (
	"context"
	"net/http"

	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/rest/middleware/identity"
	restTypes "github.com/robalyx/squadpledge/internal/rest/types"
	"github.com/robalyx/squadpledge/internal/service"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// TaskHandler handles task and challenge endpoints.
type TaskHandler struct {
	tasks  *service.TaskService
	logger *zap.Logger
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(engine *service.Engine, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:  engine.Task(),
		logger: logger,
	}
}

// Create proposes a task in a project.
func (h *TaskHandler) Create(w http.ResponseWriter, req bunrouter.Request) error {
	projectID, err := paramID(req, "id")
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	var body service.CreateTaskParams
	if err := decode(w, req, &body); err != nil {
		return writeError(w, h.logger, req, err)
	}

	task, err := h.tasks.Create(req.Context(), identity.FromContext(req.Context()), projectID, body)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusCreated, task)
}

// List returns the tasks of a project.
func (h *TaskHandler) List(w http.ResponseWriter, req bunrouter.Request) error {
	projectID, err := paramID(req, "id")
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	tasks, err := h.tasks.List(req.Context(), projectID)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, emptyIfNil(tasks))
}

// Get returns a task.
func (h *TaskHandler) Get(w http.ResponseWriter, req bunrouter.Request) error {
	id, err := paramID(req, "id")
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	task, err := h.tasks.Get(req.Context(), id)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, task)
}

// Confirm moves a proposed task to taskConfirmed.
func (h *TaskHandler) Confirm(w http.ResponseWriter, req bunrouter.Request) error {
	return h.transition(w, req, h.tasks.Confirm)
}

// Accept assigns a task to the caller.
func (h *TaskHandler) Accept(w http.ResponseWriter, req bunrouter.Request) error {
	return h.transition(w, req, h.tasks.Accept)
}

// Complete hands a task over to audit.
func (h *TaskHandler) Complete(w http.ResponseWriter, req bunrouter.Request) error {
	return h.transition(w, req, h.tasks.Complete)
}

// Approve completes an audited task.
func (h *TaskHandler) Approve(w http.ResponseWriter, req bunrouter.Request) error {
	return h.transition(w, req, h.tasks.Approve)
}

// Reject fails an audited or challenged task.
func (h *TaskHandler) Reject(w http.ResponseWriter, req bunrouter.Request) error {
	return h.transition(w, req, h.tasks.Reject)
}

func (h *TaskHandler) transition(
	w http.ResponseWriter, req bunrouter.Request,
	fn func(ctx context.Context, caller string, taskID int64) (*types.Task, error),
) error {
	id, err := paramID(req, "id")
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	task, err := fn(req.Context(), identity.FromContext(req.Context()), id)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, task)
}

// Challenge raises a challenge against a task.
func (h *TaskHandler) Challenge(w http.ResponseWriter, req bunrouter.Request) error {
	id, err := paramID(req, "id")
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	var body restTypes.ChallengeRequest
	if err := decode(w, req, &body); err != nil {
		return writeError(w, h.logger, req, err)
	}

	challenge, err := h.tasks.Challenge(req.Context(), identity.FromContext(req.Context()), id, body.StakeHH)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusCreated, challenge)
}

// Challenges returns the challenges raised against a task.
func (h *TaskHandler) Challenges(w http.ResponseWriter, req bunrouter.Request) error {
	id, err := paramID(req, "id")
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	challenges, err := h.tasks.ListChallenges(req.Context(), id)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, emptyIfNil(challenges))
}
