package restModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type SecurityPositionResponse struct {
	Issuer       string `json:"issuer"`
	SecurityType string `json:"security_type"`
	TradingCode  string `json:"trading_code"`
	ISIN         string `json:"isin"`
	Currency     string `json:"currency,omitempty"`
	Quantity     int    `json:"quantity"`
	IsBond       bool   `json:"is_bond"`
	IsStock      bool   `json:"is_stock"`
	IsEtf        bool   `json:"is_etf"`
}

type BrokerStatementResponse struct {
	AccountNumber  string                     `json:"account_number"`
	StatementDate  string                     `json:"statement_date,omitempty"`
	TotalPositions int                        `json:"total_positions"`
	BondsCount     int                        `json:"bonds_count"`
	StocksCount    int                        `json:"stocks_count"`
	EtfsCount      int                        `json:"etfs_count"`
	Positions      []SecurityPositionResponse `json:"positions"`
}

type StatementValidationResponse struct {
	Valid          bool   `json:"valid"`
	AccountNumber  string `json:"account_number"`
	TotalPositions int    `json:"total_positions"`
	Bonds          int    `json:"bonds"`
	Stocks         int    `json:"stocks"`
	Etfs           int    `json:"etfs"`
}

type PortfolioCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type PortfolioResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	TotalValue  decimal.Decimal `json:"total_value"`
	CashBalance decimal.Decimal `json:"cash_balance"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type PositionCreateRequest struct {
	PortfolioID  int64            `json:"portfolio_id"`
	Secid        string           `json:"secid"`
	Quantity     decimal.Decimal  `json:"quantity"`
	AvgPrice     *decimal.Decimal `json:"avg_price"`
	TargetWeight *decimal.Decimal `json:"target_weight"`
}

type PositionResponse struct {
	ID            int64            `json:"id"`
	PortfolioID   int64            `json:"portfolio_id"`
	Secid         string           `json:"secid"`
	Quantity      decimal.Decimal  `json:"quantity"`
	AvgPrice      *decimal.Decimal `json:"avg_price"`
	MarketPrice   *decimal.Decimal `json:"market_price"`
	MarketValue   *decimal.Decimal `json:"market_value"`
	UnrealizedPnl *decimal.Decimal `json:"unrealized_pnl"`
	TargetWeight  *decimal.Decimal `json:"target_weight"`
	ActualWeight  *decimal.Decimal `json:"actual_weight"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type PortfolioSummaryResponse struct {
	Portfolio          PortfolioResponse  `json:"portfolio"`
	Positions          []PositionResponse `json:"positions"`
	TotalUnrealizedPnl decimal.Decimal    `json:"total_unrealized_pnl"`
	PositionsCount     int                `json:"positions_count"`
}

type SecurityResponse struct {
	Secid     string    `json:"secid"`
	Name      string    `json:"name"`
	ISIN      string    `json:"isin,omitempty"`
	Engine    string    `json:"engine,omitempty"`
	Market    string    `json:"market,omitempty"`
	Board     string    `json:"board,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type QuoteResponse struct {
	Secid     string           `json:"secid"`
	Timestamp time.Time        `json:"timestamp"`
	Price     decimal.Decimal  `json:"price"`
	Volume    *decimal.Decimal `json:"volume"`
	Bid       *decimal.Decimal `json:"bid"`
	Ask       *decimal.Decimal `json:"ask"`
}

type StatementFormatResponse struct {
	Description   string                   `json:"description"`
	RequiredSheet string                   `json:"required_sheet"`
	Structure     StatementFormatStructure `json:"structure"`
	Columns       []StatementFormatColumn  `json:"columns"`
}

type StatementFormatStructure struct {
	AccountInfo   string                 `json:"account_info"`
	BondsSection  StatementFormatSection `json:"bonds_section"`
	StocksSection StatementFormatSection `json:"stocks_section"`
}

type StatementFormatSection struct {
	Start   string `json:"start"`
	Headers string `json:"headers"`
	Data    string `json:"data"`
}

type StatementFormatColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
