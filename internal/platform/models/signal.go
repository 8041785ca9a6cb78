package models

import (
	"encoding/json"
	"time"
)

// TradingSignal is the order document posted by the upstream alert source.
// Field names follow the downstream API, so the JSON tags are camelCase.
type TradingSignal struct {
	Name   string         `json:"name"`
	Secret string         `json:"secret"`
	Side   string         `json:"side"`
	Symbol string         `json:"symbol"`
	Close  CloseOrder     `json:"close"`
	Open   OpenOrder      `json:"open"`
	DCA    DCAOrder       `json:"dca"`
	SL     SLConfig       `json:"sl"`
	TP     map[string]any `json:"tp,omitempty"`
}

type CloseOrder struct {
	Action      string        `json:"action"`
	Decrease    CloseDecrease `json:"decrease"`
	CheckProfit bool          `json:"checkProfit"`
	Price       string        `json:"price"`
}

type CloseDecrease struct {
	Type   string `json:"type"`
	Amount string `json:"amount"`
}

type OpenOrder struct {
	AmountType string `json:"amountType"`
	Amount     string `json:"amount"`
	Enabled    bool   `json:"enabled"`
}

type DCAOrder struct {
	AmountType  string `json:"amountType"`
	Amount      string `json:"amount"`
	CheckProfit bool   `json:"checkProfit"`
}

type SLConfig struct {
	Price  string `json:"price"`
	Update bool   `json:"update"`
}

// Envelope carries one accepted signal through its instrument queue.
// Payload is the raw request body: the relay forwards what it received,
// byte for byte, including fields it does not model.
type Envelope struct {
	TargetSymbol string
	QueueSymbol  string
	Payload      json.RawMessage
	ReceivedAt   time.Time
}
