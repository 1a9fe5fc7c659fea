package model

import "strings"

// Маркеры типа инструмента в выписке брокера.
const (
	bondMarker  = "облигац"
	stockMarker = "акц"
	etfMarker   = "пиф"
)

func IsBondType(securityType string) bool {
	return strings.Contains(strings.ToLower(securityType), bondMarker)
}

func IsStockType(securityType string) bool {
	return strings.Contains(strings.ToLower(securityType), stockMarker)
}

// IsETFType — тип должен целиком равняться маркеру, вхождения недостаточно.
func IsETFType(securityType string) bool {
	return strings.ToLower(securityType) == etfMarker
}

type SecurityPosition struct {
	Issuer       string
	SecurityType string
	TradingCode  string
	ISIN         string
	Currency     string // пустая строка = валюта не указана
	Quantity     int
}

func (p SecurityPosition) IsBond() bool {
	return IsBondType(p.SecurityType)
}

func (p SecurityPosition) IsStock() bool {
	return IsStockType(p.SecurityType)
}

func (p SecurityPosition) IsETF() bool {
	return IsETFType(p.SecurityType)
}

// MergedPosition — позиция вместе с названием раздела выписки, из которого
// она извлечена. Используется при экспорте сводной таблицы.
type MergedPosition struct {
	SecurityPosition
	Section string
}

type BrokerStatement struct {
	AccountNumber string
	StatementDate string
	Positions     []SecurityPosition
}

// Счётчики всегда идут по типу инструмента самой позиции,
// а не по разделу выписки.

func (s BrokerStatement) Bonds() int {
	cnt := 0
	for _, p := range s.Positions {
		if p.IsBond() {
			cnt++
		}
	}
	return cnt
}

func (s BrokerStatement) Stocks() int {
	cnt := 0
	for _, p := range s.Positions {
		if p.IsStock() {
			cnt++
		}
	}
	return cnt
}

func (s BrokerStatement) ETFs() int {
	cnt := 0
	for _, p := range s.Positions {
		if p.IsETF() {
			cnt++
		}
	}
	return cnt
}

func (s BrokerStatement) TotalPositions() int {
	return len(s.Positions)
}

type StatementValidation struct {
	Valid          bool
	AccountNumber  string
	TotalPositions int
	Bonds          int
	Stocks         int
	Etfs           int
}
