package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Security struct {
	Secid     string
	Name      string
	ISIN      string
	Engine    string
	Market    string
	Board     string
	IsActive  bool
	CreatedAt time.Time
}

type Quote struct {
	Secid     string
	Timestamp time.Time
	Price     decimal.Decimal
	Volume    *decimal.Decimal
	Bid       *decimal.Decimal
	Ask       *decimal.Decimal
}
