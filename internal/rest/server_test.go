package rest_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/robalyx/squadpledge/internal/database/memory"
	"github.com/robalyx/squadpledge/internal/database/types"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/robalyx/squadpledge/internal/rest"
	"github.com/robalyx/squadpledge/internal/rest/middleware/identity"
	restTypes "github.com/robalyx/squadpledge/internal/rest/types"
	"github.com/robalyx/squadpledge/internal/service"
	"github.com/robalyx/squadpledge/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newServer(t *testing.T, limit config.RateLimit) http.Handler {
	t.Helper()

	store := memory.New(zap.NewNop())
	engine := service.New(store, service.DefaultRules(), zap.NewNop())

	return rest.NewServer(engine, zap.NewNop(), &config.APIConfig{RateLimit: limit})
}

// call performs a request as caller and decodes a JSON response into out when set.
func call(t *testing.T, h http.Handler, caller, method, path string, body, out any) int {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = sonic.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequestWithContext(t.Context(), method, path, bytes.NewReader(payload))
	if caller != "" {
		req.Header.Set(identity.Header, caller)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if out != nil {
		require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}

	return rec.Code
}

func TestServerProjectFlow(t *testing.T) {
	t.Parallel()

	h := newServer(t, config.RateLimit{})

	var access types.Access
	require.Equal(t, http.StatusOK, call(t, h, "admin", http.MethodPost, "/v1/access/init", nil, &access))
	assert.Equal(t, enum.UserRoleAdmin, access.Role)

	var profile types.UserProfile
	require.Equal(t, http.StatusCreated, call(t, h, "admin", http.MethodPost, "/v1/profiles", restTypes.RegisterRequest{
		DisplayName:        "Admin",
		SquadRole:          enum.SquadRoleMasters,
		ParticipationLevel: enum.ParticipationLevelMaster,
	}, &profile))
	assert.Equal(t, "admin", profile.Identity)

	var project types.Project
	require.Equal(t, http.StatusCreated, call(t, h, "admin", http.MethodPost, "/v1/projects", map[string]any{
		"title":              "Album",
		"estimatedTotalHH":   100,
		"finalMonetaryValue": "1000",
		"otherTasksPoolHH":   20,
	}, &project))
	assert.Equal(t, enum.ProjectStatusPledging, project.Status)
	assert.NotZero(t, project.PoolTaskID)

	var ledger restTypes.Ledger
	require.Equal(t, http.StatusOK, call(t, h, "", http.MethodGet, fmt.Sprintf("/v1/projects/%d/ledger", project.ID), nil, &ledger))
	assert.InDelta(t, 100.0, ledger.Capacity, 1e-9)
	require.Len(t, ledger.Tasks, 1)
	assert.True(t, ledger.Tasks[0].IsPool)
	assert.InDelta(t, 20.0, ledger.Tasks[0].Budget, 1e-9)

	var projects []types.Project
	require.Equal(t, http.StatusOK, call(t, h, "", http.MethodGet, "/v1/projects", nil, &projects))
	assert.Len(t, projects, 1)
}

func TestServerErrorMapping(t *testing.T) {
	t.Parallel()

	h := newServer(t, config.RateLimit{})
	require.Equal(t, http.StatusOK, call(t, h, "admin", http.MethodPost, "/v1/access/init", nil, nil))

	tests := []struct {
		name   string
		caller string
		method string
		path   string
		body   any
		status int
		kind   service.Kind
	}{
		{
			name:   "unapproved caller creates project",
			caller: "stranger",
			method: http.MethodPost,
			path:   "/v1/projects",
			body:   map[string]any{"title": "x", "estimatedTotalHH": 10},
			status: http.StatusForbidden,
			kind:   service.KindAccessDenied,
		},
		{
			name:   "invalid project fields",
			caller: "admin",
			method: http.MethodPost,
			path:   "/v1/projects",
			body:   map[string]any{"title": "", "estimatedTotalHH": 10},
			status: http.StatusBadRequest,
			kind:   service.KindValidationError,
		},
		{
			name:   "missing project",
			method: http.MethodGet,
			path:   "/v1/projects/999",
			status: http.StatusNotFound,
			kind:   service.KindNotFound,
		},
		{
			name:   "malformed id",
			method: http.MethodGet,
			path:   "/v1/tasks/abc",
			status: http.StatusBadRequest,
			kind:   service.KindValidationError,
		},
		{
			name:   "anonymous initialization",
			method: http.MethodPost,
			path:   "/v1/access/init",
			status: http.StatusForbidden,
			kind:   service.KindAccessDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var resp restTypes.ErrorResponse
			assert.Equal(t, tt.status, call(t, h, tt.caller, tt.method, tt.path, tt.body, &resp))
			if tt.kind != "" {
				assert.Equal(t, string(tt.kind), resp.Kind)
			}
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestServerMalformedBody(t *testing.T) {
	t.Parallel()

	h := newServer(t, config.RateLimit{})

	req := httptest.NewRequestWithContext(t.Context(), http.MethodPost, "/v1/projects", bytes.NewBufferString("{"))
	req.Header.Set(identity.Header, "admin")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServerRateLimit(t *testing.T) {
	t.Parallel()

	h := newServer(t, config.RateLimit{
		RequestsPerSecond: 0.001,
		BurstSize:         2,
		StrikeLimit:       5,
		BlockDuration:     60,
	})

	assert.Equal(t, http.StatusOK, call(t, h, "alice", http.MethodGet, "/v1/projects", nil, nil))
	assert.Equal(t, http.StatusOK, call(t, h, "alice", http.MethodGet, "/v1/projects", nil, nil))
	assert.Equal(t, http.StatusTooManyRequests, call(t, h, "alice", http.MethodGet, "/v1/projects", nil, nil))

	// Limits are tracked per identity.
	assert.Equal(t, http.StatusOK, call(t, h, "bob", http.MethodGet, "/v1/projects", nil, nil))
}

func TestServerHealth(t *testing.T) {
	t.Parallel()

	h := newServer(t, config.RateLimit{})
	assert.Equal(t, http.StatusNoContent, call(t, h, "", http.MethodGet, "/healthz", nil, nil))
}
