package models

import (
	"github.com/shopspring/decimal"

	dErrors "consortium/pkg/domain-errors"
)

// coinsPerUSD is the fixed peg: 100 coin == $1.00.
const coinsPerUSD = 100

var coinsPerUSDDecimal = decimal.NewFromInt(coinsPerUSD)

// ToUSDAmount converts minor-unit coin to a USD amount with two decimals.
func ToUSDAmount(coins int64) decimal.Decimal {
	return decimal.New(coins, -2)
}

// ToCoinAmount converts a USD amount to minor-unit coin. Fractions of a cent
// cannot be represented and are rejected rather than rounded.
func ToCoinAmount(usd decimal.Decimal) (int64, error) {
	coins := usd.Mul(coinsPerUSDDecimal)
	if !coins.IsInteger() {
		return 0, dErrors.New(dErrors.CodeInvalidMovementAmount, "amount has more precision than one cent")
	}
	if !coins.BigInt().IsInt64() {
		return 0, dErrors.New(dErrors.CodeArithmeticOverflow, "amount exceeds coin range")
	}
	return coins.IntPart(), nil
}
