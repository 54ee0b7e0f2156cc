package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "consortium/pkg/domain-errors"
)

func TestNewCoinMovement(t *testing.T) {
	t.Run("accepts zero and positive amounts", func(t *testing.T) {
		m, err := NewCoinMovement("bank1", "bank2", 7, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(7), m.BlockHeight)

		m, err = NewCoinMovement("bank1", "bank1", 7, 10000)
		require.NoError(t, err)
		assert.True(t, m.IsSelfMovement())
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := NewCoinMovement("bank1", "bank2", 1, -1)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidMovementAmount)
	})

	t.Run("rejects empty members and negative heights", func(t *testing.T) {
		_, err := NewCoinMovement("", "bank2", 1, 1)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		_, err = NewCoinMovement("bank1", " ", 1, 1)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		_, err = NewCoinMovement("bank1", "bank2", -1, 1)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestParseCoinAmount(t *testing.T) {
	amount, err := ParseCoinAmount(" 160000 ")
	require.NoError(t, err)
	assert.Equal(t, int64(160000), amount)

	for _, raw := range []string{"", "abc", "-5", "1.50", "9223372036854775808"} {
		_, err := ParseCoinAmount(raw)
		assert.ErrorIs(t, err, ErrInvalidMovementAmount, raw)
	}
}

func TestBlockRange(t *testing.T) {
	r, err := NewBlockRange(1, 14)
	require.NoError(t, err)
	assert.True(t, r.Contains(1))
	assert.True(t, r.Contains(14))
	assert.False(t, r.Contains(15))

	assert.True(t, r.Overlaps(BlockRange{From: 14, To: 20}))
	assert.True(t, r.Overlaps(BlockRange{From: 0, To: 1}))
	assert.False(t, r.Overlaps(BlockRange{From: 15, To: 20}))

	_, err = NewBlockRange(5, 4)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	_, err = NewBlockRange(-1, 4)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestReportAccessors(t *testing.T) {
	report := &SettlementReport{
		NetEntries: []NetEntry{{MemberID: "bank1", Amount: -300}, {MemberID: "bank2", Amount: 300}},
		WireEntries: []WireEntry{
			{FromMemberID: "bank1", ToMemberID: "bank2", Amount: 300},
		},
	}

	entry, ok := report.NetEntryFor("bank2")
	require.True(t, ok)
	assert.Equal(t, int64(300), entry.Amount)
	_, ok = report.NetEntryFor("bank9")
	assert.False(t, ok)

	_, ok = report.WireBetween("bank2", "bank1")
	assert.False(t, ok)
	assert.Equal(t, int64(300), report.TotalWireVolume())

	summary := report.Summary()
	assert.Equal(t, 2, summary.MemberCount)
	assert.Equal(t, 1, summary.WireCount)
}

func TestUSDConversion(t *testing.T) {
	assert.Equal(t, "1600.00", ToUSDAmount(160000).StringFixed(2))
	assert.Equal(t, "-0.05", ToUSDAmount(-5).StringFixed(2))

	coins, err := ToCoinAmount(decimal.RequireFromString("12.34"))
	require.NoError(t, err)
	assert.Equal(t, int64(1234), coins)

	_, err = ToCoinAmount(decimal.RequireFromString("0.001"))
	assert.ErrorIs(t, err, ErrInvalidMovementAmount)

	_, err = ToCoinAmount(decimal.RequireFromString("100000000000000000000"))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeArithmeticOverflow))
}
