package handler

import (
	"time"

	"github.com/google/uuid"

	"consortium/internal/settlement/models"
)

// Amounts are sent in coin minor units alongside their USD rendering.

type NetEntryResponse struct {
	MemberID string `json:"member_id"`
	Amount   int64  `json:"amount"`
	USD      string `json:"usd"`
}

type WireEntryResponse struct {
	FromMemberID string `json:"from_member_id"`
	ToMemberID   string `json:"to_member_id"`
	Amount       int64  `json:"amount"`
	USD          string `json:"usd"`
}

type ReportResponse struct {
	ID              string              `json:"id,omitempty"`
	FromBlockHeight int64               `json:"from_block_height"`
	ToBlockHeight   int64               `json:"to_block_height"`
	NetEntries      []NetEntryResponse  `json:"net_entries"`
	WireEntries     []WireEntryResponse `json:"wire_entries"`
	WireVolume      int64               `json:"wire_volume"`
	WireVolumeUSD   string              `json:"wire_volume_usd"`
	CreatedAt       time.Time           `json:"created_at"`
}

type ReportSummaryResponse struct {
	ID              string    `json:"id"`
	FromBlockHeight int64     `json:"from_block_height"`
	ToBlockHeight   int64     `json:"to_block_height"`
	MemberCount     int       `json:"member_count"`
	WireCount       int       `json:"wire_count"`
	WireVolume      int64     `json:"wire_volume"`
	WireVolumeUSD   string    `json:"wire_volume_usd"`
	CreatedAt       time.Time `json:"created_at"`
}

type ReportListResponse struct {
	Reports []ReportSummaryResponse `json:"reports"`
}

func usd(coins int64) string {
	return models.ToUSDAmount(coins).StringFixed(2)
}

func toReportResponse(r *models.SettlementReport) ReportResponse {
	resp := ReportResponse{
		FromBlockHeight: r.Range.From,
		ToBlockHeight:   r.Range.To,
		NetEntries:      make([]NetEntryResponse, 0, len(r.NetEntries)),
		WireEntries:     make([]WireEntryResponse, 0, len(r.WireEntries)),
		CreatedAt:       r.CreatedAt,
	}
	if r.ID != uuid.Nil {
		resp.ID = r.ID.String()
	}
	for _, e := range r.NetEntries {
		resp.NetEntries = append(resp.NetEntries, NetEntryResponse{
			MemberID: e.MemberID.String(),
			Amount:   e.Amount,
			USD:      usd(e.Amount),
		})
	}
	for _, w := range r.WireEntries {
		resp.WireEntries = append(resp.WireEntries, WireEntryResponse{
			FromMemberID: w.FromMemberID.String(),
			ToMemberID:   w.ToMemberID.String(),
			Amount:       w.Amount,
			USD:          usd(w.Amount),
		})
	}
	resp.WireVolume = r.TotalWireVolume()
	resp.WireVolumeUSD = usd(resp.WireVolume)
	return resp
}

func toListResponse(summaries []models.ReportSummary) ReportListResponse {
	resp := ReportListResponse{Reports: make([]ReportSummaryResponse, 0, len(summaries))}
	for _, s := range summaries {
		resp.Reports = append(resp.Reports, ReportSummaryResponse{
			ID:              s.ID.String(),
			FromBlockHeight: s.Range.From,
			ToBlockHeight:   s.Range.To,
			MemberCount:     s.MemberCount,
			WireCount:       s.WireCount,
			WireVolume:      s.WireVolume,
			WireVolumeUSD:   usd(s.WireVolume),
			CreatedAt:       s.CreatedAt,
		})
	}
	return resp
}
