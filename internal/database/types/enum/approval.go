package enum

// ApprovalStatus tracks an administrator's decision on an access request.
//
//go:generate go tool enumer -type=ApprovalStatus -trimprefix=ApprovalStatus -transform=lower -json
type ApprovalStatus int

const (
	ApprovalStatusPending ApprovalStatus = iota
	ApprovalStatusApproved
	ApprovalStatusRejected
)
