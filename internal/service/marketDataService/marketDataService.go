package marketDataService

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rebalancer/data/repository"
	"rebalancer/internal/externalApi"
	"rebalancer/internal/model"
	"rebalancer/internal/model/moexModel"
	"rebalancer/internal/service"
	"rebalancer/utils"
)

// Рынок, с которого синхронизируется справочник инструментов.
const (
	defaultEngine = "stock"
	defaultMarket = "shares"
)

type MoexApi interface {
	GetSecurities(ctx context.Context, engine, market string) ([]moexModel.SecurityInfo, error)
	GetCandles(ctx context.Context, secid string, from time.Time) ([]moexModel.Candle, error)
}

type Repository interface {
	GetSecurities(ctx context.Context, limit, offset int) ([]model.Security, error)
	InsertSecurity(ctx context.Context, security model.Security) error
	SecurityExists(ctx context.Context, secid string) (bool, error)
	InsertQuote(ctx context.Context, quote model.Quote) error
	GetLatestQuote(ctx context.Context, secid string) (model.Quote, error)
}

type MarketDataService struct {
	repo    Repository
	moexApi MoexApi
}

func New(repo Repository, moexApi MoexApi) *MarketDataService {
	return &MarketDataService{
		repo:    repo,
		moexApi: moexApi,
	}
}

func (s *MarketDataService) GetSecurities(ctx context.Context, limit, offset int) ([]model.Security, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketDataService.GetSecurities"

	slog.Debug("GetSecurities start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("limit", limit), slog.Int("offset", offset))
	defer func() {
		slog.Debug("GetSecurities finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	securities, err := s.repo.GetSecurities(ctx, limit, offset)
	if err != nil {
		slog.Error("got error from repo.GetSecurities", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return securities, nil
}

// SyncSecurities подтягивает справочник инструментов с биржи и сохраняет
// ещё не известные. Возвращает количество добавленных.
func (s *MarketDataService) SyncSecurities(ctx context.Context) (int, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketDataService.SyncSecurities"

	slog.Debug("SyncSecurities start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("SyncSecurities finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	securitiesInfo, err := s.moexApi.GetSecurities(ctx, defaultEngine, defaultMarket)
	if err != nil {
		slog.Error("got error from moexApi.GetSecurities", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return 0, err
	}

	inserted := 0
	for _, info := range securitiesInfo {
		if info.Secid == "" {
			continue
		}

		exists, err := s.repo.SecurityExists(ctx, info.Secid)
		if err != nil {
			slog.Error("got error from repo.SecurityExists", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return inserted, err
		}
		if exists {
			continue
		}

		security := model.Security{
			Secid:    info.Secid,
			Name:     info.Shortname,
			ISIN:     info.ISIN,
			Engine:   defaultEngine,
			Market:   defaultMarket,
			Board:    info.Board,
			IsActive: true,
		}
		if err := s.repo.InsertSecurity(ctx, security); err != nil {
			if errors.Is(err, repository.ErrAlreadyExists) {
				continue
			}
			slog.Error("got error from repo.InsertSecurity", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return inserted, err
		}
		inserted++
	}

	slog.Info("securities synchronized", slog.String("rqID", rqID), slog.String("op", op), slog.Int("inserted", inserted))

	return inserted, nil
}

// SyncQuotes подтягивает свечи инструмента за текущий день и сохраняет их
// котировками. Цена котировки — цена закрытия свечи.
func (s *MarketDataService) SyncQuotes(ctx context.Context, secid string) (int, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketDataService.SyncQuotes"

	slog.Debug("SyncQuotes start", slog.String("rqID", rqID), slog.String("op", op), slog.String("secid", secid))
	defer func() {
		slog.Debug("SyncQuotes finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	candles, err := s.moexApi.GetCandles(ctx, secid, startOfDay(time.Now()))
	if err != nil {
		if errors.Is(err, externalApi.ErrNotFound) {
			return 0, service.ErrNotFound
		}
		slog.Error("got error from moexApi.GetCandles", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return 0, err
	}

	for _, candle := range candles {
		volume := candle.Volume
		quote := model.Quote{
			Secid:     secid,
			Timestamp: candle.Begin,
			Price:     candle.Close,
			Volume:    &volume,
		}
		if err := s.repo.InsertQuote(ctx, quote); err != nil {
			slog.Error("got error from repo.InsertQuote", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return 0, err
		}
	}

	slog.Info("quotes synchronized", slog.String("rqID", rqID), slog.String("op", op), slog.String("secid", secid), slog.Int("count", len(candles)))

	return len(candles), nil
}

func (s *MarketDataService) GetLatestQuote(ctx context.Context, secid string) (model.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketDataService.GetLatestQuote"

	slog.Debug("GetLatestQuote start", slog.String("rqID", rqID), slog.String("op", op), slog.String("secid", secid))
	defer func() {
		slog.Debug("GetLatestQuote finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	quote, err := s.repo.GetLatestQuote(ctx, secid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Quote{}, service.ErrNotFound
		}
		slog.Error("got error from repo.GetLatestQuote", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Quote{}, err
	}

	return quote, nil
}

// RefreshMarketData — точка входа для планировщика.
func (s *MarketDataService) RefreshMarketData(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketDataService.RefreshMarketData"

	inserted, err := s.SyncSecurities(ctx)
	if err != nil {
		slog.Error("daily market data update failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	slog.Info("daily market data update complete", slog.String("rqID", rqID), slog.String("op", op), slog.Int("inserted", inserted))

	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
