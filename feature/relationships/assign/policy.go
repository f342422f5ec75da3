package assign

// TargetPolicy decides how many artists a studio should take during the main pass.
//
//   - unassigned: artists still in the pool
//   - compatible: artists in the pool compatible with this studio
//   - remainingStudios: this studio plus the ones not yet processed
//   - min, max: the studio's effective capacity bounds (max <= 0 means unbounded)
type TargetPolicy func(unassigned, compatible, remainingStudios, min, max int) int

// DefaultTargetPolicy gives every remaining studio an even share of the pool,
// clamped to capacity and capped by what is actually compatible.
func DefaultTargetPolicy(unassigned, compatible, remainingStudios, min, max int) int {
	if remainingStudios <= 0 || compatible <= 0 {
		return 0
	}
	share := (unassigned + remainingStudios - 1) / remainingStudios
	if share < min {
		share = min
	}
	if max > 0 && share > max {
		share = max
	}
	if share > compatible {
		share = compatible
	}
	return share
}

// FillPolicy takes as many compatible artists as capacity allows. Later studios
// may end up empty; useful when studios are ordered by priority.
func FillPolicy(_, compatible, _, _, max int) int {
	if max > 0 && compatible > max {
		return max
	}
	return compatible
}
