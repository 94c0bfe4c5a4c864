package enum

// AccessTier is the resolved access level of a caller, combining role and approval.
//
//go:generate go tool enumer -type=AccessTier -trimprefix=AccessTier -transform=lower -json
type AccessTier int

const (
	// AccessTierUnapproved has never requested access or was rejected.
	AccessTierUnapproved AccessTier = iota
	// AccessTierPending is waiting for an administrator decision.
	AccessTierPending
	// AccessTierApproved may use every member operation.
	AccessTierApproved
	// AccessTierAdmin holds the administrator role.
	AccessTierAdmin
)
