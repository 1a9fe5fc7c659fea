package restConverter

import (
	"rebalancer/internal/model"
	"rebalancer/internal/model/restModel"
)

func ConvertPosition(position model.SecurityPosition) restModel.SecurityPositionResponse {
	return restModel.SecurityPositionResponse{
		Issuer:       position.Issuer,
		SecurityType: position.SecurityType,
		TradingCode:  position.TradingCode,
		ISIN:         position.ISIN,
		Currency:     position.Currency,
		Quantity:     position.Quantity,
		IsBond:       position.IsBond(),
		IsStock:      position.IsStock(),
		IsEtf:        position.IsETF(),
	}
}

func ConvertStatement(statement model.BrokerStatement) restModel.BrokerStatementResponse {
	positions := make([]restModel.SecurityPositionResponse, 0, len(statement.Positions))
	for _, position := range statement.Positions {
		positions = append(positions, ConvertPosition(position))
	}

	return restModel.BrokerStatementResponse{
		AccountNumber:  statement.AccountNumber,
		StatementDate:  statement.StatementDate,
		TotalPositions: statement.TotalPositions(),
		BondsCount:     statement.Bonds(),
		StocksCount:    statement.Stocks(),
		EtfsCount:      statement.ETFs(),
		Positions:      positions,
	}
}

func ConvertStatementValidation(validation model.StatementValidation) restModel.StatementValidationResponse {
	return restModel.StatementValidationResponse{
		Valid:          validation.Valid,
		AccountNumber:  validation.AccountNumber,
		TotalPositions: validation.TotalPositions,
		Bonds:          validation.Bonds,
		Stocks:         validation.Stocks,
		Etfs:           validation.Etfs,
	}
}

func ConvertPortfolio(portfolio model.Portfolio) restModel.PortfolioResponse {
	return restModel.PortfolioResponse{
		ID:          portfolio.ID,
		Name:        portfolio.Name,
		Description: portfolio.Description,
		TotalValue:  portfolio.TotalValue,
		CashBalance: portfolio.CashBalance,
		IsActive:    portfolio.IsActive,
		CreatedAt:   portfolio.CreatedAt,
		UpdatedAt:   portfolio.UpdatedAt,
	}
}

func ConvertPortfolios(portfolios []model.Portfolio) []restModel.PortfolioResponse {
	res := make([]restModel.PortfolioResponse, 0, len(portfolios))
	for _, portfolio := range portfolios {
		res = append(res, ConvertPortfolio(portfolio))
	}
	return res
}

func ConvertPortfolioPosition(position model.Position) restModel.PositionResponse {
	return restModel.PositionResponse{
		ID:            position.ID,
		PortfolioID:   position.PortfolioID,
		Secid:         position.Secid,
		Quantity:      position.Quantity,
		AvgPrice:      position.AvgPrice,
		MarketPrice:   position.MarketPrice,
		MarketValue:   position.MarketValue,
		UnrealizedPnl: position.UnrealizedPnl,
		TargetWeight:  position.TargetWeight,
		ActualWeight:  position.ActualWeight,
		CreatedAt:     position.CreatedAt,
		UpdatedAt:     position.UpdatedAt,
	}
}

func ConvertPortfolioPositions(positions []model.Position) []restModel.PositionResponse {
	res := make([]restModel.PositionResponse, 0, len(positions))
	for _, position := range positions {
		res = append(res, ConvertPortfolioPosition(position))
	}
	return res
}

func ConvertPortfolioSummary(summary model.PortfolioSummary) restModel.PortfolioSummaryResponse {
	return restModel.PortfolioSummaryResponse{
		Portfolio:          ConvertPortfolio(summary.Portfolio),
		Positions:          ConvertPortfolioPositions(summary.Positions),
		TotalUnrealizedPnl: summary.TotalUnrealizedPnl,
		PositionsCount:     summary.PositionsCount,
	}
}

func ConvertSecurity(security model.Security) restModel.SecurityResponse {
	return restModel.SecurityResponse{
		Secid:     security.Secid,
		Name:      security.Name,
		ISIN:      security.ISIN,
		Engine:    security.Engine,
		Market:    security.Market,
		Board:     security.Board,
		IsActive:  security.IsActive,
		CreatedAt: security.CreatedAt,
	}
}

func ConvertSecurities(securities []model.Security) []restModel.SecurityResponse {
	res := make([]restModel.SecurityResponse, 0, len(securities))
	for _, security := range securities {
		res = append(res, ConvertSecurity(security))
	}
	return res
}

func ConvertQuote(quote model.Quote) restModel.QuoteResponse {
	return restModel.QuoteResponse{
		Secid:     quote.Secid,
		Timestamp: quote.Timestamp,
		Price:     quote.Price,
		Volume:    quote.Volume,
		Bid:       quote.Bid,
		Ask:       quote.Ask,
	}
}
