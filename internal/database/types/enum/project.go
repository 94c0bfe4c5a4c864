package enum

// ProjectStatus represents the coarse lifecycle stage of a project.
//
//go:generate go tool enumer -type=ProjectStatus -trimprefix=ProjectStatus -transform=lower -json
type ProjectStatus int

const (
	// ProjectStatusPledging accepts new pledges.
	ProjectStatusPledging ProjectStatus = iota
	// ProjectStatusActive has left pledging; work continues but no pledges are created.
	ProjectStatusActive
	// ProjectStatusCompleted has been settled and opened the rating window.
	ProjectStatusCompleted
	// ProjectStatusArchived is terminal.
	ProjectStatusArchived
)

// CanTransitionTo reports whether the lifecycle allows moving to next.
// Archival is allowed from any state except archived itself.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	if next == ProjectStatusArchived {
		return s != ProjectStatusArchived
	}

	return next == s+1 && next != ProjectStatusArchived
}

// ActivationMode selects the single trigger that moves a project from pledging to active.
//
//go:generate go tool enumer -type=ActivationMode -trimprefix=ActivationMode -transform=lower -json
type ActivationMode int

const (
	// ActivationModeExplicit activates only through the creator or an administrator.
	ActivationModeExplicit ActivationMode = iota
	// ActivationModeThreshold activates automatically once confirmed hours reach the threshold.
	ActivationModeThreshold
)
