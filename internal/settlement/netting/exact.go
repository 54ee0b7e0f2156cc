package netting

import "consortium/internal/settlement/models"

// settleExactMatches pairs each debtor with a creditor of identical magnitude
// and settles the pair with a single wire. Debtors are visited in member-ID
// order and each takes the lowest-ID unmatched creditor of its magnitude, so
// the chosen pairs do not depend on map iteration order upstream.
//
// Inputs must be ordered by member ID (as Split returns them). The residual
// slices keep that order.
func settleExactMatches(debtors, creditors []Balance) (wires []models.WireEntry, restDebtors, restCreditors []Balance) {
	// magnitude -> indexes of creditors with that magnitude, ascending by ID
	byMagnitude := make(map[int64][]int, len(creditors))
	for i, c := range creditors {
		byMagnitude[c.Remaining] = append(byMagnitude[c.Remaining], i)
	}

	matched := make([]bool, len(creditors))
	for _, d := range debtors {
		queue := byMagnitude[d.Remaining]
		if len(queue) == 0 {
			restDebtors = append(restDebtors, d)
			continue
		}
		ci := queue[0]
		byMagnitude[d.Remaining] = queue[1:]
		matched[ci] = true
		wires = append(wires, models.WireEntry{
			FromMemberID: d.MemberID,
			ToMemberID:   creditors[ci].MemberID,
			Amount:       d.Remaining,
		})
	}

	for i, c := range creditors {
		if !matched[i] {
			restCreditors = append(restCreditors, c)
		}
	}
	return wires, restDebtors, restCreditors
}
