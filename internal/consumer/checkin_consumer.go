package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/Meleegod01/IdeaTicks-MVP/internal/repository"
	"github.com/Meleegod01/IdeaTicks-MVP/internal/service"
	amqp "github.com/rabbitmq/amqp091-go"
)

// CheckinMessage is what the gate scanners publish when a ticket is scanned.
type CheckinMessage struct {
	Serial     string    `json:"serial"`
	RedeemedAt time.Time `json:"redeemed_at"`
}

// CheckinConsumer applies redemptions coming from the check-in collaborator.
// It only ever moves tickets to redeemed; it never touches issuance or
// listing state directly (voiding a listed ticket is the ownership ledger's
// concern).
type CheckinConsumer struct {
	tickets   repository.TicketRepository
	ownership service.OwnershipService
}

func NewCheckinConsumer(tickets repository.TicketRepository, ownership service.OwnershipService) *CheckinConsumer {
	return &CheckinConsumer{tickets: tickets, ownership: ownership}
}

func (cc *CheckinConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			cc.handleMessage(msg)
		}
		log.Println("[CheckinConsumer] channel closed, stopping consumer")
	}()
}

func (cc *CheckinConsumer) handleMessage(msg amqp.Delivery) {
	var checkin CheckinMessage
	if err := json.Unmarshal(msg.Body, &checkin); err != nil {
		log.Printf("[CheckinConsumer] failed to unmarshal: %v", err)
		msg.Nack(false, false)
		return
	}

	ctx := context.Background()
	ticket, err := cc.tickets.FindBySerial(ctx, checkin.Serial)
	if err != nil {
		log.Printf("[CheckinConsumer] unknown serial %s: %v", checkin.Serial, err)
		msg.Nack(false, false)
		return
	}

	redeemedAt := checkin.RedeemedAt
	if redeemedAt.IsZero() {
		redeemedAt = time.Now().UTC()
	}

	if err := cc.ownership.Redeem(ctx, ticket.ID, redeemedAt); err != nil {
		if errors.Is(err, service.ErrStorageUnavailable) {
			log.Printf("[CheckinConsumer] storage unavailable, requeueing %s: %v", checkin.Serial, err)
			msg.Nack(false, true)
			return
		}
		// Already redeemed, voided, or outside the event window: drop it.
		log.Printf("[CheckinConsumer] rejected redemption of %s: %v", checkin.Serial, err)
		msg.Nack(false, false)
		return
	}

	log.Printf("[CheckinConsumer] redeemed ticket %d (%s)", ticket.ID, checkin.Serial)
	msg.Ack(false)
}
