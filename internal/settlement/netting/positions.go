package netting

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"math/bits"
	"slices"

	"consortium/internal/settlement/models"
	dErrors "consortium/pkg/domain-errors"
)

// ErrArithmeticOverflow matches, via errors.Is, any accumulation that left
// the signed 64-bit range. It is a data-integrity failure for the whole range.
var ErrArithmeticOverflow = &dErrors.Error{Code: dErrors.CodeArithmeticOverflow}

// NetPositions folds movements into one signed amount per member: received
// minus sent. Inflows and outflows are summed separately in 128 bits and only
// the final net is range-checked, so the outcome does not depend on movement
// order. Self-movements register their member with no effect on it.
func NetPositions(movements []models.CoinMovement) (map[models.MemberID]int64, error) {
	flows := make(map[models.MemberID]*flow)
	get := func(member models.MemberID) *flow {
		f, ok := flows[member]
		if !ok {
			f = &flow{}
			flows[member] = f
		}
		return f
	}

	for i, m := range movements {
		if m.Amount < 0 {
			return nil, dErrors.New(dErrors.CodeInvalidMovementAmount,
				fmt.Sprintf("movement %d at block %d has negative amount %d", i, m.BlockHeight, m.Amount))
		}
		if m.IsSelfMovement() {
			get(m.FromMemberID)
			continue
		}
		if err := get(m.FromMemberID).out.add(uint64(m.Amount)); err != nil {
			return nil, overflowErr(m.FromMemberID, err)
		}
		if err := get(m.ToMemberID).in.add(uint64(m.Amount)); err != nil {
			return nil, overflowErr(m.ToMemberID, err)
		}
	}

	positions := make(map[models.MemberID]int64, len(flows))
	for _, member := range slices.Sorted(maps.Keys(flows)) {
		net, err := flows[member].net()
		if err != nil {
			return nil, overflowErr(member, err)
		}
		positions[member] = net
	}
	return positions, nil
}

// flow holds one member's total inflow and outflow.
type flow struct {
	in, out uint128
}

// net returns in-out. A result of math.MinInt64 is refused as well: the
// debtor magnitude must stay representable.
func (f *flow) net() (int64, error) {
	if f.out.less(f.in) {
		diff := f.in.sub(f.out)
		if diff.hi != 0 || diff.lo > math.MaxInt64 {
			return 0, errOverflow
		}
		return int64(diff.lo), nil
	}
	diff := f.out.sub(f.in)
	if diff.hi != 0 || diff.lo > math.MaxInt64 {
		return 0, errOverflow
	}
	return -int64(diff.lo), nil
}

type uint128 struct {
	hi, lo uint64
}

func (u *uint128) add(v uint64) error {
	var carry uint64
	u.lo, carry = bits.Add64(u.lo, v, 0)
	u.hi, carry = bits.Add64(u.hi, 0, carry)
	if carry != 0 {
		return errOverflow
	}
	return nil
}

func (u uint128) less(v uint128) bool {
	return u.hi < v.hi || (u.hi == v.hi && u.lo < v.lo)
}

// sub returns u-v; callers guarantee v <= u.
func (u uint128) sub(v uint128) uint128 {
	lo, borrow := bits.Sub64(u.lo, v.lo, 0)
	hi, _ := bits.Sub64(u.hi, v.hi, borrow)
	return uint128{hi: hi, lo: lo}
}

func overflowErr(member models.MemberID, err error) error {
	return dErrors.Wrap(err, dErrors.CodeArithmeticOverflow, "net position of "+member.String()+" overflows")
}

var errOverflow = errors.New("int64 overflow")

func addChecked(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, errOverflow
	}
	return a + b, nil
}
