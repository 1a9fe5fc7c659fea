package portfolioService

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"rebalancer/data/repository"
	"rebalancer/internal/model"
	"rebalancer/internal/service"
	"rebalancer/utils"
)

type Repository interface {
	CreatePortfolio(ctx context.Context, name, description string) (model.Portfolio, error)
	GetPortfolio(ctx context.Context, portfolioID int64) (model.Portfolio, error)
	GetPortfolios(ctx context.Context, limit, offset int) ([]model.Portfolio, error)
	CreatePosition(ctx context.Context, position model.Position) (model.Position, error)
	GetPositionsForPortfolio(ctx context.Context, portfolioID int64) ([]model.Position, error)
	UpdatePosition(ctx context.Context, position model.Position) error
	GetLatestQuote(ctx context.Context, secid string) (model.Quote, error)
}

type PortfolioService struct {
	repo Repository
}

func New(repo Repository) *PortfolioService {
	return &PortfolioService{repo: repo}
}

func (s *PortfolioService) CreatePortfolio(ctx context.Context, name, description string) (model.Portfolio, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.CreatePortfolio"

	slog.Debug("CreatePortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.String("name", name))
	defer func() {
		slog.Debug("CreatePortfolio finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	portfolio, err := s.repo.CreatePortfolio(ctx, name, description)
	if err != nil {
		slog.Error("got error from repo.CreatePortfolio", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Portfolio{}, err
	}

	return portfolio, nil
}

func (s *PortfolioService) GetPortfolio(ctx context.Context, portfolioID int64) (model.Portfolio, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetPortfolio"

	slog.Debug("GetPortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))
	defer func() {
		slog.Debug("GetPortfolio finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	portfolio, err := s.repo.GetPortfolio(ctx, portfolioID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Portfolio{}, service.ErrNotFound
		}
		slog.Error("got error from repo.GetPortfolio", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Portfolio{}, err
	}

	return portfolio, nil
}

func (s *PortfolioService) GetPortfolios(ctx context.Context, limit, offset int) ([]model.Portfolio, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetPortfolios"

	slog.Debug("GetPortfolios start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("limit", limit), slog.Int("offset", offset))
	defer func() {
		slog.Debug("GetPortfolios finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	portfolios, err := s.repo.GetPortfolios(ctx, limit, offset)
	if err != nil {
		slog.Error("got error from repo.GetPortfolios", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return portfolios, nil
}

func (s *PortfolioService) GetPortfolioPositions(ctx context.Context, portfolioID int64) ([]model.Position, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetPortfolioPositions"

	slog.Debug("GetPortfolioPositions start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))
	defer func() {
		slog.Debug("GetPortfolioPositions finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	positions, err := s.repo.GetPositionsForPortfolio(ctx, portfolioID)
	if err != nil {
		slog.Error("got error from repo.GetPositionsForPortfolio", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return positions, nil
}

// CreatePosition добавляет позицию в существующий портфель.
func (s *PortfolioService) CreatePosition(ctx context.Context, position model.Position) (model.Position, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.CreatePosition"

	slog.Debug("CreatePosition start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", position.PortfolioID), slog.String("secid", position.Secid))
	defer func() {
		slog.Debug("CreatePosition finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	_, err := s.repo.GetPortfolio(ctx, position.PortfolioID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Position{}, service.ErrNotFound
		}
		slog.Error("got error from repo.GetPortfolio", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Position{}, err
	}

	created, err := s.repo.CreatePosition(ctx, position)
	if err != nil {
		slog.Error("got error from repo.CreatePosition", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Position{}, err
	}

	return created, nil
}

// GetPortfolioSummary собирает сводку портфеля, подтягивая последние
// котировки: рыночная стоимость и нереализованный результат пересчитываются
// и сохраняются на каждой позиции, у которой есть котировка.
func (s *PortfolioService) GetPortfolioSummary(ctx context.Context, portfolioID int64) (model.PortfolioSummary, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetPortfolioSummary"

	slog.Debug("GetPortfolioSummary start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))
	defer func() {
		slog.Debug("GetPortfolioSummary finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	portfolio, err := s.GetPortfolio(ctx, portfolioID)
	if err != nil {
		return model.PortfolioSummary{}, err
	}

	positions, err := s.repo.GetPositionsForPortfolio(ctx, portfolioID)
	if err != nil {
		slog.Error("got error from repo.GetPositionsForPortfolio", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.PortfolioSummary{}, err
	}

	summary := model.PortfolioSummary{
		Portfolio:      portfolio,
		Positions:      make([]model.Position, 0, len(positions)),
		PositionsCount: len(positions),
	}

	for _, position := range positions {
		quote, err := s.repo.GetLatestQuote(ctx, position.Secid)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				slog.Error("got error from repo.GetLatestQuote", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
				return model.PortfolioSummary{}, err
			}
			// без котировки позиция остаётся как есть
			summary.Positions = append(summary.Positions, position)
			continue
		}

		position = applyMarketPrice(position, quote.Price)

		if err := s.repo.UpdatePosition(ctx, position); err != nil {
			slog.Error("got error from repo.UpdatePosition", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return model.PortfolioSummary{}, err
		}

		if position.UnrealizedPnl != nil {
			summary.TotalUnrealizedPnl = summary.TotalUnrealizedPnl.Add(*position.UnrealizedPnl)
		}
		summary.Positions = append(summary.Positions, position)
	}

	return summary, nil
}

func applyMarketPrice(position model.Position, price decimal.Decimal) model.Position {
	marketValue := position.Quantity.Mul(price)
	position.MarketPrice = &price
	position.MarketValue = &marketValue

	if position.AvgPrice != nil {
		pnl := price.Sub(*position.AvgPrice).Mul(position.Quantity)
		position.UnrealizedPnl = &pnl
	}

	return position
}
