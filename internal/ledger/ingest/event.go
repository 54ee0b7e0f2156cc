// Package ingest records ledger coin movements consumed from Kafka.
package ingest

import (
	"consortium/internal/settlement/models"
)

// MovementEvent is the wire shape of a ledger movement. Amount is the
// minor-unit magnitude as a decimal string so large values survive JSON
// decoders that use floats.
type MovementEvent struct {
	FromMemberID string `json:"from_member_id"`
	ToMemberID   string `json:"to_member_id"`
	BlockHeight  int64  `json:"block_height"`
	Amount       string `json:"amount"`
}

// ToMovement validates the event and converts it to a domain movement.
func (e MovementEvent) ToMovement() (models.CoinMovement, error) {
	amount, err := models.ParseCoinAmount(e.Amount)
	if err != nil {
		return models.CoinMovement{}, err
	}
	return models.NewCoinMovement(models.MemberID(e.FromMemberID), models.MemberID(e.ToMemberID), e.BlockHeight, amount)
}
