package amqp

import (
	"encoding/json"
	"time"
)

// SaleCommittedMessage is the refresh signal emitted after a sale commit.
// It carries only identifiers; consumers fetch current state from the
// store, so a stale message can never overwrite fresher data.
type SaleCommittedMessage struct {
	TransactionID string    `json:"transaction_id"`
	ProductIDs    []string  `json:"product_ids"`
	Partial       bool      `json:"partial"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewSaleCommittedMessage builds the message for one committed sale.
// Partial marks commits where some stock adjustments did not land.
func NewSaleCommittedMessage(transactionID string, productIDs []string, partial bool) *SaleCommittedMessage {
	return &SaleCommittedMessage{
		TransactionID: transactionID,
		ProductIDs:    productIDs,
		Partial:       partial,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SaleCommittedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SaleCommittedMessageFromJSON creates a message from JSON bytes
func SaleCommittedMessageFromJSON(data []byte) (*SaleCommittedMessage, error) {
	var msg SaleCommittedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
