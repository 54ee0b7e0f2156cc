package models

import (
	"time"

	dErrors "consortium/pkg/domain-errors"

	"github.com/google/uuid"
)

// BlockRange is a closed interval of ledger block heights.
type BlockRange struct {
	From int64 `json:"from_block_height"`
	To   int64 `json:"to_block_height"`
}

// NewBlockRange creates a BlockRange with domain invariant validation.
func NewBlockRange(from, to int64) (BlockRange, error) {
	if from < 0 || to < 0 {
		return BlockRange{}, dErrors.New(dErrors.CodeInvariantViolation, "block heights cannot be negative")
	}
	if from > to {
		return BlockRange{}, dErrors.New(dErrors.CodeInvariantViolation, "from_block_height must not exceed to_block_height")
	}
	return BlockRange{From: from, To: to}, nil
}

// Contains reports whether height falls inside the range, bounds included.
func (r BlockRange) Contains(height int64) bool {
	return height >= r.From && height <= r.To
}

// Overlaps reports whether the two ranges share at least one block.
func (r BlockRange) Overlaps(other BlockRange) bool {
	return r.From <= other.To && other.From <= r.To
}

// NetEntry is a member's net position over a report's range: positive for a
// net receiver, negative for a net sender, zero when internally balanced.
type NetEntry struct {
	MemberID MemberID `json:"member_id"`
	Amount   int64    `json:"amount"`
}

// WireEntry is one settlement instruction. From and To always differ and
// Amount is always positive.
type WireEntry struct {
	FromMemberID MemberID `json:"from_member_id"`
	ToMemberID   MemberID `json:"to_member_id"`
	Amount       int64    `json:"amount"`
}

// SettlementReport is the netting engine's output for one block range.
// It is treated as immutable once built.
type SettlementReport struct {
	ID          uuid.UUID   `json:"id"`
	Range       BlockRange  `json:"range"`
	NetEntries  []NetEntry  `json:"net_entries"`
	WireEntries []WireEntry `json:"wire_entries"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NetEntryFor returns the net entry of member, if the member was observed.
func (r *SettlementReport) NetEntryFor(member MemberID) (NetEntry, bool) {
	for _, e := range r.NetEntries {
		if e.MemberID == member {
			return e, true
		}
	}
	return NetEntry{}, false
}

// WireBetween returns the wire from one member to another, if any.
func (r *SettlementReport) WireBetween(from, to MemberID) (WireEntry, bool) {
	for _, w := range r.WireEntries {
		if w.FromMemberID == from && w.ToMemberID == to {
			return w, true
		}
	}
	return WireEntry{}, false
}

// TotalWireVolume sums all wire amounts. Reports built by the netting engine
// are already checked against overflow.
func (r *SettlementReport) TotalWireVolume() int64 {
	var total int64
	for _, w := range r.WireEntries {
		total += w.Amount
	}
	return total
}

// ReportSummary is the list view of a stored report.
type ReportSummary struct {
	ID          uuid.UUID  `json:"id"`
	Range       BlockRange `json:"range"`
	MemberCount int        `json:"member_count"`
	WireCount   int        `json:"wire_count"`
	WireVolume  int64      `json:"wire_volume"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Summary returns the list view of the report.
func (r *SettlementReport) Summary() ReportSummary {
	return ReportSummary{
		ID:          r.ID,
		Range:       r.Range,
		MemberCount: len(r.NetEntries),
		WireCount:   len(r.WireEntries),
		WireVolume:  r.TotalWireVolume(),
		CreatedAt:   r.CreatedAt,
	}
}
