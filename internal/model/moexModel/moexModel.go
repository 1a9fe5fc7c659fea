package moexModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type RawSecuritiesInfo struct {
	Securities Securities `json:"securities"`
}

type Securities struct {
	Columns []string `json:"columns"`
	Data    [][]any  `json:"data"`
}

type RawCandles struct {
	Candles Candles `json:"candles"`
}

type Candles struct {
	Columns []string `json:"columns"`
	Data    [][]any  `json:"data"`
}

type SecurityInfo struct {
	Secid     string
	Shortname string
	ISIN      string
	Board     string
}

type Candle struct {
	Open   decimal.Decimal
	Close  decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Value  decimal.Decimal
	Volume decimal.Decimal
	Begin  time.Time
	End    time.Time
}
