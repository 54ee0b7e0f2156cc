package netting

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consortium/internal/settlement/models"
)

// assertInvariants checks every property a computed report must satisfy.
func assertInvariants(t *testing.T, report *models.SettlementReport) {
	t.Helper()

	var netSum, absSum, wireSum int64
	nets := make(map[models.MemberID]int64, len(report.NetEntries))
	for _, e := range report.NetEntries {
		_, dup := nets[e.MemberID]
		require.False(t, dup, "duplicate net entry for %s", e.MemberID)
		nets[e.MemberID] = e.Amount
		netSum += e.Amount
		if e.Amount < 0 {
			absSum -= e.Amount
		} else {
			absSum += e.Amount
		}
	}
	assert.Zero(t, netSum, "net entries must conserve value")

	type pair struct{ from, to models.MemberID }
	seen := make(map[pair]bool)
	discharged := make(map[models.MemberID]int64)
	for _, w := range report.WireEntries {
		assert.Positive(t, w.Amount, "wire amount")
		assert.NotEqual(t, w.FromMemberID, w.ToMemberID, "self wire")
		p := pair{w.FromMemberID, w.ToMemberID}
		assert.False(t, seen[p], "duplicate wire %s -> %s", w.FromMemberID, w.ToMemberID)
		seen[p] = true
		wireSum += w.Amount
		discharged[w.FromMemberID] -= w.Amount
		discharged[w.ToMemberID] += w.Amount
	}
	assert.Equal(t, absSum/2, wireSum, "wire volume identity")

	for member, net := range nets {
		assert.Equal(t, net, discharged[member], "wires must discharge net of %s", member)
	}
	for member := range discharged {
		_, ok := nets[member]
		assert.True(t, ok, "wire references unobserved member %s", member)
	}
}

func randomMovements(r *rand.Rand, members, count int, maxAmount int64) []models.CoinMovement {
	movements := make([]models.CoinMovement, 0, count)
	for i := range count {
		from := fmt.Sprintf("bank%d", r.IntN(members)+1)
		to := fmt.Sprintf("bank%d", r.IntN(members)+1)
		movements = append(movements, mv(from, to, int64(i+1), r.Int64N(maxAmount+1)))
	}
	return movements
}

func TestCreateReport_Properties(t *testing.T) {
	engine := NewEngine()
	for seed := uint64(1); seed <= 300; seed++ {
		r := rand.New(rand.NewPCG(seed, seed*31))
		members := r.IntN(12) + 1
		count := r.IntN(60)
		// small amounts make exact matches and equal-magnitude ties common
		maxAmount := []int64{5, 100, 1_000_000}[r.IntN(3)]
		movements := randomMovements(r, members, count, maxAmount)
		blockRange := models.BlockRange{From: 1, To: int64(count) + 1}

		report, err := engine.CreateReport(blockRange, movements)
		require.NoError(t, err, "seed %d", seed)
		assertInvariants(t, report)

		shuffled := append([]models.CoinMovement(nil), movements...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		again, err := engine.CreateReport(blockRange, shuffled)
		require.NoError(t, err, "seed %d", seed)
		assert.Equal(t, report, again, "seed %d: report must not depend on input order", seed)
	}
}

func TestCreateReport_SelfMovementsNeverWire(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 7))
	movements := randomMovements(r, 6, 40, 500)
	withSelf := append([]models.CoinMovement(nil), movements...)
	for i := range 10 {
		withSelf = append(withSelf, mv("bank3", "bank3", int64(i+1), 123456789))
	}
	withSelf = append(withSelf, mv("bank9", "bank9", 5, 777))

	engine := NewEngine()
	base, err := engine.CreateReport(models.BlockRange{From: 1, To: 40}, movements)
	require.NoError(t, err)
	got, err := engine.CreateReport(models.BlockRange{From: 1, To: 40}, withSelf)
	require.NoError(t, err)

	assert.Equal(t, base.WireEntries, got.WireEntries)
	requireNet(t, got, "bank9", 0)
	for _, w := range got.WireEntries {
		assert.NotEqual(t, models.MemberID("bank9"), w.FromMemberID)
		assert.NotEqual(t, models.MemberID("bank9"), w.ToMemberID)
	}
}

func TestCreateReport_ZeroNetMembersHaveNoWires(t *testing.T) {
	report := createReport(t, 1, 3, []models.CoinMovement{
		mv("bank1", "bank2", 1, 500),
		mv("bank2", "bank3", 2, 500),
		mv("bank4", "bank1", 3, 0),
	})

	requireNet(t, report, "bank2", 0)
	requireNet(t, report, "bank4", 0)
	require.Len(t, report.WireEntries, 1)
	requireWire(t, report, "bank1", "bank3", 500)
}

func FuzzCreateReport(f *testing.F) {
	f.Add([]byte{1, 2, 10, 2, 1, 30, 3, 4, 40})
	f.Add([]byte{1, 1, 255, 1, 1, 255})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		var movements []models.CoinMovement
		for i := 0; i+2 < len(data); i += 3 {
			from := fmt.Sprintf("bank%d", data[i]%8)
			to := fmt.Sprintf("bank%d", data[i+1]%8)
			movements = append(movements, mv(from, to, int64(i), int64(data[i+2])*100))
		}
		report, err := NewEngine().CreateReport(models.BlockRange{From: 0, To: int64(len(data))}, movements)
		require.NoError(t, err)
		assertInvariants(t, report)
	})
}
