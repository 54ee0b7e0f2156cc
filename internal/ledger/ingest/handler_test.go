package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"consortium/internal/platform/kafka/consumer"
	"consortium/internal/settlement/models"
	dErrors "consortium/pkg/domain-errors"
	"consortium/pkg/platform/audit"
)

type recorderFunc func(ctx context.Context, m models.CoinMovement) error

func (f recorderFunc) RecordMovement(ctx context.Context, m models.CoinMovement) error { return f(ctx, m) }

type capturePublisher struct {
	events []audit.Event
}

func (p *capturePublisher) Emit(_ context.Context, e audit.Event) error {
	p.events = append(p.events, e)
	return nil
}

type MovementHandlerSuite struct {
	suite.Suite
	recorded  []models.CoinMovement
	recordErr error
	publisher *capturePublisher
	handler   *MovementHandler
}

func TestMovementHandlerSuite(t *testing.T) {
	suite.Run(t, new(MovementHandlerSuite))
}

func (s *MovementHandlerSuite) SetupTest() {
	s.recorded = nil
	s.recordErr = nil
	s.publisher = &capturePublisher{}
	recorder := recorderFunc(func(_ context.Context, m models.CoinMovement) error {
		if s.recordErr != nil {
			return s.recordErr
		}
		s.recorded = append(s.recorded, m)
		return nil
	})
	s.handler = NewMovementHandler(recorder, s.publisher, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func message(value string) *consumer.Message {
	return &consumer.Message{Topic: "coin-movements", Partition: 2, Offset: 41, Value: []byte(value)}
}

func (s *MovementHandlerSuite) TestRecordsValidEvent() {
	err := s.handler.Handle(context.Background(), message(
		`{"from_member_id":"bank1","to_member_id":"bank2","block_height":7,"amount":"9223372036854775807"}`))

	s.Require().NoError(err)
	s.Require().Len(s.recorded, 1)
	s.Equal(models.CoinMovement{FromMemberID: "bank1", ToMemberID: "bank2", BlockHeight: 7, Amount: 9223372036854775807}, s.recorded[0])
	s.Empty(s.publisher.events)
}

func (s *MovementHandlerSuite) TestSkipsPoisonPills() {
	cases := map[string]string{
		"malformed json":  `{"from_member_id":`,
		"negative amount": `{"from_member_id":"bank1","to_member_id":"bank2","block_height":1,"amount":"-5"}`,
		"fractional":      `{"from_member_id":"bank1","to_member_id":"bank2","block_height":1,"amount":"1.5"}`,
		"missing member":  `{"from_member_id":"","to_member_id":"bank2","block_height":1,"amount":"5"}`,
		"negative height": `{"from_member_id":"bank1","to_member_id":"bank2","block_height":-1,"amount":"5"}`,
	}
	for name, payload := range cases {
		s.Run(name, func() {
			s.SetupTest()
			err := s.handler.Handle(context.Background(), message(payload))
			s.Require().NoError(err)
			s.Empty(s.recorded)
			s.Require().Len(s.publisher.events, 1)
			s.Equal(string(audit.EventMovementRejected), s.publisher.events[0].Action)
			s.Equal("coin-movements/2@41", s.publisher.events[0].Subject)
		})
	}
}

func (s *MovementHandlerSuite) TestSkipsMovementIntoSettledBlock() {
	s.recordErr = dErrors.New(dErrors.CodeConflict, "block 7 is already settled")

	err := s.handler.Handle(context.Background(), message(
		`{"from_member_id":"bank1","to_member_id":"bank2","block_height":7,"amount":"10"}`))

	s.Require().NoError(err)
	s.Len(s.publisher.events, 1)
}

func (s *MovementHandlerSuite) TestReturnsTransientErrors() {
	s.recordErr = dErrors.Wrap(errors.New("connection reset"), dErrors.CodeInternal, "failed to record movement")

	err := s.handler.Handle(context.Background(), message(
		`{"from_member_id":"bank1","to_member_id":"bank2","block_height":7,"amount":"10"}`))

	s.Require().Error(err)
	s.Empty(s.publisher.events)
}

func TestMovementEventToMovement(t *testing.T) {
	m, err := MovementEvent{FromMemberID: "bank1", ToMemberID: "bank1", BlockHeight: 0, Amount: " 0 "}.ToMovement()
	require.NoError(t, err)
	assert.True(t, m.IsSelfMovement())
	assert.Zero(t, m.Amount)

	_, err = MovementEvent{FromMemberID: "bank1", ToMemberID: "bank2", Amount: ""}.ToMovement()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidMovementAmount))
}
