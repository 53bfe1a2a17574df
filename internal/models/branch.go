package models

// Branch identifies one of the fixed physical branches. It is a
// reporting partition key, never derived from data.
type Branch string

const (
	BranchLaban  Branch = "laban"
	BranchTuwaiq Branch = "tuwaiq"

	// BranchAll is a query-parameter sentinel meaning "no branch filter".
	// It is never stored on a record.
	BranchAll Branch = "all"
)

// KnownBranches is the fixed enumeration used by branch comparison.
// A branch with zero activity still appears with zero values.
var KnownBranches = []Branch{BranchLaban, BranchTuwaiq}

func IsKnownBranch(b Branch) bool {
	for _, kb := range KnownBranches {
		if kb == b {
			return true
		}
	}
	return false
}
