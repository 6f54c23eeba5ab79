package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"storefront/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeclineCardNumber always results in a failed charge. It passes the
// Luhn checksum, so it exercises the decline path rather than the
// validation path.
const DeclineCardNumber = "4000000000000002"

// ChargeRequest is what a gateway needs to settle a payment attempt.
type ChargeRequest struct {
	UserID  uuid.UUID
	OrderID uuid.UUID
	Amount  decimal.Decimal
	Method  string
	Card    *CardDetails
}

// Gateway decides the outcome of an already-validated payment attempt.
// The simulated implementation below stands in for a real payment
// processor client; swapping in a real one does not touch the checkout
// flow.
type Gateway interface {
	Charge(req ChargeRequest) string
}

// SimulatedGateway decides outcomes from the declared inputs alone:
// cash on delivery defers settlement, the reserved decline number
// fails, everything else completes. No randomness, no latency.
type SimulatedGateway struct{}

func NewSimulatedGateway() Gateway {
	return &SimulatedGateway{}
}

func (g *SimulatedGateway) Charge(req ChargeRequest) string {
	if req.Method == models.MethodCashOnDelivery {
		return models.PaymentStatusPending
	}

	if req.Card != nil && CleanCardNumber(req.Card.Number) == DeclineCardNumber {
		return models.PaymentStatusFailed
	}

	return models.PaymentStatusCompleted
}

// NewTransactionID generates a transaction reference unique with
// overwhelming probability: a millisecond timestamp prefix plus six
// random bytes. The suffix carries no meaning beyond uniqueness.
func NewTransactionID() string {
	buf := make([]byte, 6)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("TXN_%d_%s", time.Now().UnixMilli(), strings.ToUpper(hex.EncodeToString(buf)))
}
