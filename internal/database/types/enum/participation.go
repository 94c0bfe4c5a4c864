package enum

// ParticipationLevel is a member's seniority, which fixes their voting power.
//
//go:generate go tool enumer -type=ParticipationLevel -trimprefix=ParticipationLevel -json
type ParticipationLevel int

const (
	ParticipationLevelApprentice ParticipationLevel = iota
	ParticipationLevelJourneyman
	ParticipationLevelMaster
	ParticipationLevelGuestArtist
)

// VotingPower returns the vote weight granted by the level.
func (l ParticipationLevel) VotingPower() int {
	switch l {
	case ParticipationLevelApprentice:
		return 0
	case ParticipationLevelJourneyman:
		return 1
	case ParticipationLevelMaster:
		return 3
	case ParticipationLevelGuestArtist:
		return 4
	default:
		return 0
	}
}
