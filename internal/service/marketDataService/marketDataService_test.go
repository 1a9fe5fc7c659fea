package marketDataService

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rebalancer/data/repository/memory"
	"rebalancer/internal/externalApi"
	"rebalancer/internal/model"
	"rebalancer/internal/model/moexModel"
	"rebalancer/internal/service"
)

type moexApiStub struct {
	securities []moexModel.SecurityInfo
	candles    []moexModel.Candle
	err        error
}

func (s *moexApiStub) GetSecurities(_ context.Context, _, _ string) ([]moexModel.SecurityInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.securities, nil
}

func (s *moexApiStub) GetCandles(_ context.Context, _ string, _ time.Time) ([]moexModel.Candle, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.candles, nil
}

func TestSyncSecurities(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	require.NoError(t, repo.InsertSecurity(ctx, model.Security{Secid: "SBER", Name: "Сбербанк"}))

	stub := &moexApiStub{
		securities: []moexModel.SecurityInfo{
			{Secid: "SBER", Shortname: "Сбербанк", ISIN: "RU0009029540", Board: "TQBR"},
			{Secid: "GAZP", Shortname: "Газпром", ISIN: "RU0007661625", Board: "TQBR"},
			{Secid: "", Shortname: "мусорная строка"},
		},
	}

	srv := New(repo, stub)

	inserted, err := srv.SyncSecurities(ctx)
	require.NoError(t, err)
	// уже известный SBER и строка без secid пропущены
	assert.Equal(t, 1, inserted)

	securities, err := srv.GetSecurities(ctx, 100, 0)
	require.NoError(t, err)
	require.Len(t, securities, 2)
	assert.Equal(t, "GAZP", securities[1].Secid)
	assert.True(t, securities[1].IsActive)
}

func TestSyncQuotes(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	begin := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	stub := &moexApiStub{
		candles: []moexModel.Candle{
			{Close: decimal.NewFromInt(250), Volume: decimal.NewFromInt(1000), Begin: begin, End: begin.Add(time.Minute)},
			{Close: decimal.NewFromInt(252), Volume: decimal.NewFromInt(500), Begin: begin.Add(time.Minute), End: begin.Add(2 * time.Minute)},
		},
	}

	srv := New(repo, stub)

	count, err := srv.SyncQuotes(ctx, "SBER")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	latest, err := srv.GetLatestQuote(ctx, "SBER")
	require.NoError(t, err)
	assert.True(t, latest.Price.Equal(decimal.NewFromInt(252)))
	require.NotNil(t, latest.Volume)
	assert.True(t, latest.Volume.Equal(decimal.NewFromInt(500)))
}

func TestSyncQuotesUnknownSecurity(t *testing.T) {
	ctx := context.Background()

	srv := New(memory.New(), &moexApiStub{err: externalApi.ErrNotFound})

	_, err := srv.SyncQuotes(ctx, "NOPE")
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestGetLatestQuoteNotFound(t *testing.T) {
	ctx := context.Background()

	srv := New(memory.New(), &moexApiStub{})

	_, err := srv.GetLatestQuote(ctx, "SBER")
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestRefreshMarketData(t *testing.T) {
	ctx := context.Background()

	stub := &moexApiStub{
		securities: []moexModel.SecurityInfo{
			{Secid: "LKOH", Shortname: "Лукойл", ISIN: "RU0009024277", Board: "TQBR"},
		},
	}
	srv := New(memory.New(), stub)

	require.NoError(t, srv.RefreshMarketData(ctx))

	securities, err := srv.GetSecurities(ctx, 100, 0)
	require.NoError(t, err)
	require.Len(t, securities, 1)
	assert.Equal(t, "LKOH", securities[0].Secid)
}
