package netting

import (
	"cmp"
	"slices"

	"consortium/internal/settlement/models"
)

// Balance is the outstanding magnitude a debtor owes or a creditor is owed.
type Balance struct {
	MemberID  models.MemberID
	Remaining int64
}

// Split partitions non-zero net positions into debtors (magnitude = -net) and
// creditors (magnitude = net). Zero positions belong to neither. Both slices
// come back ordered by member ID.
func Split(positions map[models.MemberID]int64) (debtors, creditors []Balance) {
	for member, net := range positions {
		switch {
		case net < 0:
			debtors = append(debtors, Balance{MemberID: member, Remaining: -net})
		case net > 0:
			creditors = append(creditors, Balance{MemberID: member, Remaining: net})
		}
	}
	byMember := func(a, b Balance) int { return cmp.Compare(a.MemberID, b.MemberID) }
	slices.SortFunc(debtors, byMember)
	slices.SortFunc(creditors, byMember)
	return debtors, creditors
}
