package booking

// Reservation statuses.  PENDING is reachable only when manual approval
// mode is enabled; the default policy auto-approves straight into
// CONFIRMED.  CANCELLED is terminal; no transition resurrects a
// cancelled entry.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

// transitions enumerates every allowed forward edge of the reservation
// lifecycle.  Entries enter the ledger as CONFIRMED (auto-approval) or
// PENDING (manual approval); everything else is a status write that must
// pass through this table.
var transitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
	StatusCancelled: {},
}

// CanTransition reports whether the status machine permits moving a
// ledger entry from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the three reservation
// statuses.  Used when parsing status filters from requests.
func ValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}
