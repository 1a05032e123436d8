package booking

// Branches is the fixed set of co-working locations rooms can belong
// to.  Room creation and updates reject any location outside this set.
var Branches = []string{"Agadir", "Marrakech", "Casablanca"}

// ValidBranch reports whether location is a recognized branch.
func ValidBranch(location string) bool {
	for _, b := range Branches {
		if b == location {
			return true
		}
	}
	return false
}
