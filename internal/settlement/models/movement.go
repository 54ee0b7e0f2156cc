package models

import (
	"strconv"
	"strings"

	dErrors "consortium/pkg/domain-errors"
)

// MemberID identifies a consortium member bank.
type MemberID string

// String returns the string representation.
func (m MemberID) String() string {
	return string(m)
}

// ErrInvalidMovementAmount matches, via errors.Is, any error raised for a
// negative or unparseable movement amount.
var ErrInvalidMovementAmount = &dErrors.Error{Code: dErrors.CodeInvalidMovementAmount}

// CoinMovement is one directional transfer of coin recorded at a ledger block.
// Amount is a direction-free magnitude in minor subunits; the sign of its
// effect comes only from the From/To roles.
type CoinMovement struct {
	FromMemberID MemberID `json:"from_member_id"`
	ToMemberID   MemberID `json:"to_member_id"`
	BlockHeight  int64    `json:"block_height"`
	Amount       int64    `json:"amount"`
}

// NewCoinMovement creates a CoinMovement with domain invariant validation.
func NewCoinMovement(from, to MemberID, blockHeight, amount int64) (CoinMovement, error) {
	if strings.TrimSpace(from.String()) == "" {
		return CoinMovement{}, dErrors.New(dErrors.CodeInvariantViolation, "from_member_id cannot be empty")
	}
	if strings.TrimSpace(to.String()) == "" {
		return CoinMovement{}, dErrors.New(dErrors.CodeInvariantViolation, "to_member_id cannot be empty")
	}
	if blockHeight < 0 {
		return CoinMovement{}, dErrors.New(dErrors.CodeInvariantViolation, "block_height cannot be negative")
	}
	if amount < 0 {
		return CoinMovement{}, dErrors.New(dErrors.CodeInvalidMovementAmount, "amount cannot be negative")
	}
	return CoinMovement{
		FromMemberID: from,
		ToMemberID:   to,
		BlockHeight:  blockHeight,
		Amount:       amount,
	}, nil
}

// IsSelfMovement reports whether the movement stays within a single member.
func (m CoinMovement) IsSelfMovement() bool {
	return m.FromMemberID == m.ToMemberID
}

// ParseCoinAmount parses a stored minor-unit amount. Empty, signed-negative,
// fractional or out-of-range text is rejected.
func ParseCoinAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidMovementAmount, "amount cannot be empty")
	}
	amount, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInvalidMovementAmount, "amount is not a valid integer")
	}
	if amount < 0 {
		return 0, dErrors.New(dErrors.CodeInvalidMovementAmount, "amount cannot be negative")
	}
	return amount, nil
}
