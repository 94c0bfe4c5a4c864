package handler

import (
	"net/http"

	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/robalyx/squadpledge/internal/rest/middleware/identity"
	restTypes "github.com/robalyx/squadpledge/internal/rest/types"
	"github.com/robalyx/squadpledge/internal/service"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// VoteHandler handles vote endpoints.
type VoteHandler struct {
	votes  *service.VoteService
	logger *zap.Logger
}

// NewVoteHandler creates a new vote handler.
func NewVoteHandler(engine *service.Engine, logger *zap.Logger) *VoteHandler {
	return &VoteHandler{
		votes:  engine.Vote(),
		logger: logger,
	}
}

// Cast records the caller's vote.
func (h *VoteHandler) Cast(w http.ResponseWriter, req bunrouter.Request) error {
	var body restTypes.VoteRequest
	if err := decode(w, req, &body); err != nil {
		return writeError(w, h.logger, req, err)
	}

	vote, err := h.votes.Cast(req.Context(), identity.FromContext(req.Context()), body.TargetID, body.Kind)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusCreated, vote)
}

// List returns the votes cast on a target. The kind query parameter defaults to taskProposal.
func (h *VoteHandler) List(w http.ResponseWriter, req bunrouter.Request) error {
	targetID, err := paramID(req, "id")
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	kind := enum.VoteKindTaskProposal
	if raw := req.URL.Query().Get("kind"); raw != "" {
		kind, err = enum.VoteKindString(raw)
		if err != nil {
			return writeError(w, h.logger, req, &service.Error{Kind: service.KindValidationError, Message: err.Error()})
		}
	}

	votes, err := h.votes.List(req.Context(), targetID, kind)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, emptyIfNil(votes))
}
