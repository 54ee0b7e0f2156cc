package netting

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consortium/internal/settlement/models"
	dErrors "consortium/pkg/domain-errors"
)

func mv(from, to string, height, amount int64) models.CoinMovement {
	return models.CoinMovement{
		FromMemberID: models.MemberID(from),
		ToMemberID:   models.MemberID(to),
		BlockHeight:  height,
		Amount:       amount,
	}
}

func createReport(t *testing.T, from, to int64, movements []models.CoinMovement) *models.SettlementReport {
	t.Helper()
	report, err := NewEngine().CreateReport(models.BlockRange{From: from, To: to}, movements)
	require.NoError(t, err)
	return report
}

func requireNet(t *testing.T, report *models.SettlementReport, member string, amount int64) {
	t.Helper()
	entry, ok := report.NetEntryFor(models.MemberID(member))
	require.True(t, ok, "missing net entry for %s", member)
	assert.Equal(t, amount, entry.Amount, "net of %s", member)
}

func requireWire(t *testing.T, report *models.SettlementReport, from, to string, amount int64) {
	t.Helper()
	wire, ok := report.WireBetween(models.MemberID(from), models.MemberID(to))
	require.True(t, ok, "missing wire %s -> %s", from, to)
	assert.Equal(t, amount, wire.Amount, "wire %s -> %s", from, to)
}

func TestCreateReport_MixedActivity(t *testing.T) {
	movements := []models.CoinMovement{
		mv("bank1", "bank1", 1, 100*100),
		mv("bank1", "bank2", 2, 200*100),
		mv("bank2", "bank1", 3, 300*100),
		mv("bank3", "bank4", 4, 400*100),
		mv("bank4", "bank5", 5, 500*100),
		mv("bank2", "bank3", 6, 600*100),
		mv("bank5", "bank1", 7, 700*100),
		mv("bank5", "bank2", 8, 800*100),
		mv("bank3", "bank4", 9, 900*100),
		mv("bank2", "bank1", 10, 1000*100),
		mv("bank2", "bank3", 11, 1100*100),
		mv("bank2", "bank3", 12, 1200*100),
		mv("bank4", "bank5", 13, 1300*100),
		mv("bank1", "bank2", 14, 1400*100),
	}

	report := createReport(t, 1, 14, movements)

	require.Len(t, report.NetEntries, 5)
	requireNet(t, report, "bank1", 40000)
	requireNet(t, report, "bank2", -180000)
	requireNet(t, report, "bank3", 160000)
	requireNet(t, report, "bank4", -50000)
	requireNet(t, report, "bank5", 30000)

	require.Len(t, report.WireEntries, 4)
	requireWire(t, report, "bank2", "bank3", 160000)
	requireWire(t, report, "bank2", "bank1", 20000)
	requireWire(t, report, "bank4", "bank5", 30000)
	requireWire(t, report, "bank4", "bank1", 20000)

	assertInvariants(t, report)
}

func TestCreateReport_SenderOwesMoreThanAnyReceiver(t *testing.T) {
	report := createReport(t, 1, 4, []models.CoinMovement{
		mv("bank1", "bank5", 1, 800*100),
		mv("bank1", "bank4", 2, 200*100),
		mv("bank2", "bank3", 3, 200*100),
		mv("bank3", "bank4", 4, 200*100),
	})

	require.Len(t, report.NetEntries, 5)
	requireNet(t, report, "bank1", -100000)
	requireNet(t, report, "bank2", -20000)
	requireNet(t, report, "bank3", 0)
	requireNet(t, report, "bank4", 40000)
	requireNet(t, report, "bank5", 80000)

	require.Len(t, report.WireEntries, 3)
	requireWire(t, report, "bank1", "bank5", 80000)
	requireWire(t, report, "bank1", "bank4", 20000)
	requireWire(t, report, "bank2", "bank4", 20000)

	assertInvariants(t, report)
}

func TestCreateReport_SendersSmallerThanReceiver(t *testing.T) {
	report := createReport(t, 1, 4, []models.CoinMovement{
		mv("bank1", "bank6", 1, 300*100),
		mv("bank2", "bank6", 2, 150*100),
		mv("bank3", "bank5", 3, 100*100),
		mv("bank4", "bank6", 4, 50*100),
	})

	require.Len(t, report.NetEntries, 6)
	requireNet(t, report, "bank1", -30000)
	requireNet(t, report, "bank2", -15000)
	requireNet(t, report, "bank3", -10000)
	requireNet(t, report, "bank4", -5000)
	requireNet(t, report, "bank5", 10000)
	requireNet(t, report, "bank6", 50000)

	require.Len(t, report.WireEntries, 4)
	requireWire(t, report, "bank1", "bank6", 30000)
	requireWire(t, report, "bank2", "bank6", 15000)
	requireWire(t, report, "bank3", "bank5", 10000)
	requireWire(t, report, "bank4", "bank6", 5000)

	// the exact pair is settled before the sweep
	assert.Equal(t, models.WireEntry{FromMemberID: "bank3", ToMemberID: "bank5", Amount: 10000}, report.WireEntries[0])
	assertInvariants(t, report)
}

func TestCreateReport_NoMovements(t *testing.T) {
	report := createReport(t, 1, 4, nil)
	assert.Empty(t, report.NetEntries)
	assert.Empty(t, report.WireEntries)
	assert.NotNil(t, report.NetEntries)
	assert.NotNil(t, report.WireEntries)
}

func TestCreateReport_OnlyIntraMemberMovements(t *testing.T) {
	report := createReport(t, 1, 4, []models.CoinMovement{
		mv("bank1", "bank1", 1, 300*100),
		mv("bank1", "bank1", 2, 150*100),
		mv("bank1", "bank1", 3, 100*100),
		mv("bank1", "bank1", 4, 50*100),
	})

	require.Len(t, report.NetEntries, 1)
	requireNet(t, report, "bank1", 0)
	assert.Empty(t, report.WireEntries)
}

func TestCreateReport_RangeBoundsAreInclusive(t *testing.T) {
	report := createReport(t, 2, 3, []models.CoinMovement{
		mv("bank1", "bank2", 1, 999),
		mv("bank1", "bank2", 2, 100),
		mv("bank2", "bank3", 3, 40),
		mv("bank3", "bank1", 4, 999),
	})

	require.Len(t, report.NetEntries, 3)
	requireNet(t, report, "bank1", -100)
	requireNet(t, report, "bank2", 60)
	requireNet(t, report, "bank3", 40)
	assert.Equal(t, models.BlockRange{From: 2, To: 3}, report.Range)
}

func TestCreateReport_Errors(t *testing.T) {
	engine := NewEngine()

	t.Run("negative amount fails fast", func(t *testing.T) {
		_, err := engine.CreateReport(models.BlockRange{From: 1, To: 2}, []models.CoinMovement{
			mv("bank1", "bank2", 1, 10),
			mv("bank2", "bank1", 2, -10),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrInvalidMovementAmount)
	})

	t.Run("net position overflow", func(t *testing.T) {
		_, err := engine.CreateReport(models.BlockRange{From: 1, To: 2}, []models.CoinMovement{
			mv("bank1", "bank2", 1, math.MaxInt64),
			mv("bank3", "bank2", 2, 1),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrArithmeticOverflow)
	})

	t.Run("debtor magnitude must be representable", func(t *testing.T) {
		_, err := engine.CreateReport(models.BlockRange{From: 1, To: 2}, []models.CoinMovement{
			mv("bank1", "bank2", 1, math.MaxInt64),
			mv("bank1", "bank3", 2, 1),
		})
		assert.ErrorIs(t, err, ErrArithmeticOverflow)
	})

	t.Run("settlement total overflow", func(t *testing.T) {
		_, err := engine.CreateReport(models.BlockRange{From: 1, To: 2}, []models.CoinMovement{
			mv("bank1", "bank2", 1, math.MaxInt64),
			mv("bank3", "bank4", 2, math.MaxInt64),
		})
		assert.ErrorIs(t, err, ErrArithmeticOverflow)
	})

	t.Run("huge self movements are harmless", func(t *testing.T) {
		report, err := engine.CreateReport(models.BlockRange{From: 1, To: 2}, []models.CoinMovement{
			mv("bank1", "bank2", 1, 10),
			mv("bank1", "bank1", 2, math.MaxInt64),
		})
		require.NoError(t, err)
		requireNet(t, report, "bank1", -10)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := engine.CreateReport(models.BlockRange{From: 3, To: 2}, nil)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func permutations(movements []models.CoinMovement) [][]models.CoinMovement {
	if len(movements) <= 1 {
		return [][]models.CoinMovement{slices.Clone(movements)}
	}
	var out [][]models.CoinMovement
	for i := range movements {
		rest := slices.Concat(movements[:i], movements[i+1:])
		for _, p := range permutations(rest) {
			out = append(out, append([]models.CoinMovement{movements[i]}, p...))
		}
	}
	return out
}

func TestCreateReport_OverflowDoesNotDependOnOrder(t *testing.T) {
	engine := NewEngine()
	blockRange := models.BlockRange{From: 1, To: 3}

	t.Run("intermediate sums beyond int64 still settle", func(t *testing.T) {
		movements := []models.CoinMovement{
			mv("bankB", "bankA", 1, math.MaxInt64),
			mv("bankD", "bankA", 2, 1),
			mv("bankA", "bankD", 3, 1),
		}
		for _, ordered := range permutations(movements) {
			report, err := engine.CreateReport(blockRange, ordered)
			require.NoError(t, err, "order %v", ordered)
			requireNet(t, report, "bankA", math.MaxInt64)
			requireNet(t, report, "bankB", -math.MaxInt64)
			requireNet(t, report, "bankD", 0)
			assert.Equal(t, []models.WireEntry{
				{FromMemberID: "bankB", ToMemberID: "bankA", Amount: math.MaxInt64},
			}, report.WireEntries)
		}
	})

	t.Run("a final net beyond int64 fails in every order", func(t *testing.T) {
		movements := []models.CoinMovement{
			mv("bankB", "bankA", 1, math.MaxInt64),
			mv("bankD", "bankA", 2, 1),
			mv("bankD", "bankC", 3, 5),
		}
		for _, ordered := range permutations(movements) {
			_, err := engine.CreateReport(blockRange, ordered)
			assert.ErrorIs(t, err, ErrArithmeticOverflow, "order %v", ordered)
		}
	})
}

