package enum

// SquadRole is the self-declared role a member plays in a squad.
//
//go:generate go tool enumer -type=SquadRole -trimprefix=SquadRole -json
type SquadRole int

const (
	SquadRoleApprentice SquadRole = iota
	SquadRoleJourneyman
	// SquadRoleMasters is the project-manager squad role.
	SquadRoleMasters
	SquadRoleMentor
)

// squadCompatibility lists the participation levels each squad role may register with.
var squadCompatibility = map[SquadRole][]ParticipationLevel{
	SquadRoleApprentice: {ParticipationLevelApprentice, ParticipationLevelJourneyman, ParticipationLevelMaster},
	SquadRoleJourneyman: {ParticipationLevelApprentice, ParticipationLevelJourneyman, ParticipationLevelMaster},
	SquadRoleMasters:    {ParticipationLevelJourneyman, ParticipationLevelMaster},
	SquadRoleMentor:     {ParticipationLevelMaster, ParticipationLevelGuestArtist},
}

// Allows reports whether a member of this squad role may hold the given level.
func (r SquadRole) Allows(level ParticipationLevel) bool {
	for _, l := range squadCompatibility[r] {
		if l == level {
			return true
		}
	}

	return false
}

// CompatibleLevels returns the participation levels allowed for this squad role.
func (r SquadRole) CompatibleLevels() []ParticipationLevel {
	levels := squadCompatibility[r]
	out := make([]ParticipationLevel, len(levels))
	copy(out, levels)

	return out
}

// DisplayName returns the human label of the squad role.
func (r SquadRole) DisplayName() string {
	if r == SquadRoleMasters {
		return "Masters (PM)"
	}

	return r.String()
}
