package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Portfolio struct {
	ID          int64
	Name        string
	Description string
	TotalValue  decimal.Decimal
	CashBalance decimal.Decimal
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Position struct {
	ID            int64
	PortfolioID   int64
	Secid         string
	Quantity      decimal.Decimal
	AvgPrice      *decimal.Decimal
	MarketPrice   *decimal.Decimal
	MarketValue   *decimal.Decimal
	UnrealizedPnl *decimal.Decimal
	TargetWeight  *decimal.Decimal
	ActualWeight  *decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type PortfolioSummary struct {
	Portfolio          Portfolio
	Positions          []Position
	TotalUnrealizedPnl decimal.Decimal
	PositionsCount     int
}
