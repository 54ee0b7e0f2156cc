package netting

import (
	"cmp"
	"fmt"
	"slices"

	"consortium/internal/settlement/models"
	dErrors "consortium/pkg/domain-errors"
)

// settleGreedy sweeps debtors and creditors largest-first with one cursor per
// side. Each step wires min(debtor, creditor) and advances whichever side hit
// zero. Total debt equals total credit, so both sides run out together; any
// leftover means the inputs were not balanced and is reported, not dropped.
func settleGreedy(debtors, creditors []Balance) ([]models.WireEntry, error) {
	ds := sortedLargestFirst(debtors)
	cs := sortedLargestFirst(creditors)

	var wires []models.WireEntry
	di, ci := 0, 0
	for di < len(ds) && ci < len(cs) {
		d, c := &ds[di], &cs[ci]
		transfer := min(d.Remaining, c.Remaining)
		wires = append(wires, models.WireEntry{
			FromMemberID: d.MemberID,
			ToMemberID:   c.MemberID,
			Amount:       transfer,
		})
		d.Remaining -= transfer
		c.Remaining -= transfer
		if d.Remaining == 0 {
			di++
		}
		if c.Remaining == 0 {
			ci++
		}
	}

	if di != len(ds) || ci != len(cs) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("unbalanced residue: %d debtors and %d creditors left unsettled", len(ds)-di, len(cs)-ci))
	}
	return wires, nil
}

// sortedLargestFirst copies balances ordered by magnitude descending, ties by
// member ID ascending.
func sortedLargestFirst(balances []Balance) []Balance {
	out := slices.Clone(balances)
	slices.SortFunc(out, func(a, b Balance) int {
		if a.Remaining != b.Remaining {
			return cmp.Compare(b.Remaining, a.Remaining)
		}
		return cmp.Compare(a.MemberID, b.MemberID)
	})
	return out
}
