package netting

import (
	"cmp"
	"fmt"
	"slices"

	"consortium/internal/settlement/models"
	dErrors "consortium/pkg/domain-errors"
)

// Engine computes settlement reports. It holds no state; one Engine can be
// shared freely, and each call works on its own accumulators.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// CreateReport nets the movements whose block height falls in blockRange and
// returns the report's range, net entries and wire entries. ID and creation
// time are left for the caller to stamp, keeping the result a pure function
// of its inputs. Movements outside the range are ignored.
func (e *Engine) CreateReport(blockRange models.BlockRange, movements []models.CoinMovement) (*models.SettlementReport, error) {
	if blockRange.From > blockRange.To {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "from_block_height must not exceed to_block_height")
	}

	inRange := make([]models.CoinMovement, 0, len(movements))
	for _, m := range movements {
		if blockRange.Contains(m.BlockHeight) {
			inRange = append(inRange, m)
		}
	}

	positions, err := NetPositions(inRange)
	if err != nil {
		return nil, err
	}

	debtors, creditors := Split(positions)
	exact, restDebtors, restCreditors := settleExactMatches(debtors, creditors)
	swept, err := settleGreedy(restDebtors, restCreditors)
	if err != nil {
		return nil, err
	}

	report := &models.SettlementReport{
		Range:       blockRange,
		NetEntries:  netEntries(positions),
		WireEntries: append(make([]models.WireEntry, 0, len(exact)+len(swept)), exact...),
	}
	report.WireEntries = append(report.WireEntries, swept...)

	if err := verify(debtors, creditors, report.WireEntries); err != nil {
		return nil, err
	}
	return report, nil
}

func netEntries(positions map[models.MemberID]int64) []models.NetEntry {
	entries := make([]models.NetEntry, 0, len(positions))
	for member, amount := range positions {
		entries = append(entries, models.NetEntry{MemberID: member, Amount: amount})
	}
	slices.SortFunc(entries, func(a, b models.NetEntry) int { return cmp.Compare(a.MemberID, b.MemberID) })
	return entries
}

// verify checks conservation and the volume identity without ever computing
// sum(|net|) directly, which could overflow where each half does not:
// sum(|net|)/2 equals total debt once total debt equals total credit.
func verify(debtors, creditors []Balance, wires []models.WireEntry) error {
	debt, err := total(debtors)
	if err != nil {
		return err
	}
	credit, err := total(creditors)
	if err != nil {
		return err
	}
	if debt != credit {
		return dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("net positions do not conserve value: debt %d, credit %d", debt, credit))
	}

	var volume int64
	for _, w := range wires {
		if w.Amount <= 0 || w.FromMemberID == w.ToMemberID {
			return dErrors.New(dErrors.CodeInvariantViolation,
				fmt.Sprintf("malformed wire %s -> %s (%d)", w.FromMemberID, w.ToMemberID, w.Amount))
		}
		if volume, err = addChecked(volume, w.Amount); err != nil {
			return dErrors.Wrap(err, dErrors.CodeArithmeticOverflow, "wire volume overflows")
		}
	}
	if volume != debt {
		return dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("wire volume %d does not discharge debt %d", volume, debt))
	}
	return nil
}

func total(balances []Balance) (int64, error) {
	var sum int64
	var err error
	for _, b := range balances {
		if sum, err = addChecked(sum, b.Remaining); err != nil {
			return 0, dErrors.Wrap(err, dErrors.CodeArithmeticOverflow, "settlement total overflows")
		}
	}
	return sum, nil
}
