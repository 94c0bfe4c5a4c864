package service

import (
	"fmt"
	"time"

	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/robalyx/squadpledge/internal/setup/config"
)

// Rules holds the fixed workflow parameters shared by every service.
type Rules struct {
	ActivationMode      enum.ActivationMode
	ActivationThreshold float64
	PledgeExpiry        time.Duration
	AuditWindow         time.Duration
	RatingWindow        time.Duration
	ChallengeQuorum     int
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewRules builds Rules from the engine configuration.
func NewRules(cfg *config.Engine) (Rules, error) {
	if err := cfg.Validate(); err != nil {
		return Rules{}, err
	}

	mode, err := cfg.Mode()
	if err != nil {
		return Rules{}, err
	}

	return Rules{
		ActivationMode:      mode,
		ActivationThreshold: cfg.ActivationThreshold,
		PledgeExpiry:        cfg.PledgeExpiry(),
		AuditWindow:         cfg.AuditWindow(),
		RatingWindow:        cfg.RatingWindow(),
		ChallengeQuorum:     cfg.ChallengeQuorum,
		Now:                 time.Now,
	}, nil
}

// DefaultRules returns the rules of the default engine configuration.
// It panics if those defaults fail validation.
func DefaultRules() Rules {
	cfg := config.DefaultEngine()

	rules, err := NewRules(&cfg)
	if err != nil {
		panic(fmt.Sprintf("invalid default engine configuration: %v", err))
	}

	return rules
}

func (r *Rules) now() time.Time {
	if r.Now == nil {
		return time.Now().UTC()
	}

	return r.Now().UTC()
}
