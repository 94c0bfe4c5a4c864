package service_test

import (
	"testing"
	"time"

	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/robalyx/squadpledge/internal/service"
	"github.com/robalyx/squadpledge/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRules(t *testing.T) {
	t.Parallel()

	var rules service.Rules
	require.NotPanics(t, func() { rules = service.DefaultRules() })

	assert.Equal(t, enum.ActivationModeExplicit, rules.ActivationMode)
	assert.InDelta(t, 0.8, rules.ActivationThreshold, 1e-9)
	assert.Equal(t, 14*24*time.Hour, rules.PledgeExpiry)
	assert.Equal(t, 24*time.Hour, rules.AuditWindow)
	assert.Equal(t, 7*24*time.Hour, rules.RatingWindow)
	assert.Equal(t, 3, rules.ChallengeQuorum)
	assert.NotNil(t, rules.Now)
}

func TestNewRulesRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*config.Engine)
	}{
		{name: "zero audit window", modify: func(c *config.Engine) { c.AuditWindowHours = 0 }},
		{name: "zero rating window", modify: func(c *config.Engine) { c.RatingWindowHours = 0 }},
		{name: "threshold above one", modify: func(c *config.Engine) { c.ActivationThreshold = 1.5 }},
		{name: "unknown activation mode", modify: func(c *config.Engine) { c.ActivationMode = "vote" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultEngine()
			tt.modify(&cfg)

			_, err := service.NewRules(&cfg)
			require.Error(t, err)
		})
	}
}
