package handler

import (
	"net/http"

	"github.com/robalyx/squadpledge/internal/rest/middleware/identity"
	restTypes "github.com/robalyx/squadpledge/internal/rest/types"
	"github.com/robalyx/squadpledge/internal/service"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// ProfileHandler handles member profile endpoints.
type ProfileHandler struct {
	profiles *service.ProfileService
	logger   *zap.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(engine *service.Engine, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: engine.Profile(),
		logger:   logger,
	}
}

// Register creates the caller's profile.
func (h *ProfileHandler) Register(w http.ResponseWriter, req bunrouter.Request) error {
	var body restTypes.RegisterRequest
	if err := decode(w, req, &body); err != nil {
		return writeError(w, h.logger, req, err)
	}

	profile, err := h.profiles.Register(req.Context(), identity.FromContext(req.Context()),
		body.DisplayName, body.SquadRole, body.ParticipationLevel)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusCreated, profile)
}

// Me returns the caller's profile.
func (h *ProfileHandler) Me(w http.ResponseWriter, req bunrouter.Request) error {
	profile, err := h.profiles.GetProfile(req.Context(), identity.FromContext(req.Context()))
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, profile)
}

// UpdateMe edits the caller's display name and picture.
func (h *ProfileHandler) UpdateMe(w http.ResponseWriter, req bunrouter.Request) error {
	var body restTypes.UpdateProfileRequest
	if err := decode(w, req, &body); err != nil {
		return writeError(w, h.logger, req, err)
	}

	profile, err := h.profiles.UpdateProfile(req.Context(), identity.FromContext(req.Context()),
		body.DisplayName, body.ProfilePicture)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, profile)
}

// Get returns a member's profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, req bunrouter.Request) error {
	profile, err := h.profiles.GetProfile(req.Context(), req.Param("identity"))
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, profile)
}

// List returns every profile.
func (h *ProfileHandler) List(w http.ResponseWriter, req bunrouter.Request) error {
	profiles, err := h.profiles.ListProfiles(req.Context(), identity.FromContext(req.Context()))
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, emptyIfNil(profiles))
}

// UpdateLevel changes a member's participation level.
func (h *ProfileHandler) UpdateLevel(w http.ResponseWriter, req bunrouter.Request) error {
	var body restTypes.UpdateLevelRequest
	if err := decode(w, req, &body); err != nil {
		return writeError(w, h.logger, req, err)
	}

	profile, err := h.profiles.UpdateParticipationLevel(req.Context(), identity.FromContext(req.Context()),
		req.Param("identity"), body.ParticipationLevel)
	if err != nil {
		return writeError(w, h.logger, req, err)
	}

	return writeJSON(w, http.StatusOK, profile)
}
