package portfolioService

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rebalancer/data/repository/memory"
	"rebalancer/internal/model"
	"rebalancer/internal/service"
)

func TestCreateAndGetPortfolio(t *testing.T) {
	ctx := context.Background()
	srv := New(memory.New())

	created, err := srv.CreatePortfolio(ctx, "Основной", "долгосрочный портфель")
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.True(t, created.IsActive)

	got, err := srv.GetPortfolio(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Основной", got.Name)
	assert.Equal(t, "долгосрочный портфель", got.Description)
}

func TestGetPortfolioNotFound(t *testing.T) {
	ctx := context.Background()
	srv := New(memory.New())

	_, err := srv.GetPortfolio(ctx, 42)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestGetPortfolios(t *testing.T) {
	ctx := context.Background()
	srv := New(memory.New())

	for _, name := range []string{"Первый", "Второй", "Третий"} {
		_, err := srv.CreatePortfolio(ctx, name, "")
		require.NoError(t, err)
	}

	page, err := srv.GetPortfolios(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Второй", page[0].Name)
	assert.Equal(t, "Третий", page[1].Name)
}

func TestCreatePositionPortfolioMissing(t *testing.T) {
	ctx := context.Background()
	srv := New(memory.New())

	_, err := srv.CreatePosition(ctx, model.Position{
		PortfolioID: 99,
		Secid:       "SBER",
		Quantity:    decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestGetPortfolioSummary(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	srv := New(repo)

	portfolio, err := srv.CreatePortfolio(ctx, "Основной", "")
	require.NoError(t, err)

	avg := decimal.NewFromInt(250)
	_, err = srv.CreatePosition(ctx, model.Position{
		PortfolioID: portfolio.ID,
		Secid:       "SBER",
		Quantity:    decimal.NewFromInt(10),
		AvgPrice:    &avg,
	})
	require.NoError(t, err)

	// позиция без котировки
	_, err = srv.CreatePosition(ctx, model.Position{
		PortfolioID: portfolio.ID,
		Secid:       "GAZP",
		Quantity:    decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	require.NoError(t, repo.InsertQuote(ctx, model.Quote{
		Secid:     "SBER",
		Timestamp: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
		Price:     decimal.NewFromInt(300),
	}))

	summary, err := srv.GetPortfolioSummary(ctx, portfolio.ID)
	require.NoError(t, err)

	assert.Equal(t, portfolio.ID, summary.Portfolio.ID)
	assert.Equal(t, 2, summary.PositionsCount)
	require.Len(t, summary.Positions, 2)

	sber := summary.Positions[0]
	require.NotNil(t, sber.MarketPrice)
	assert.True(t, sber.MarketPrice.Equal(decimal.NewFromInt(300)))
	require.NotNil(t, sber.MarketValue)
	assert.True(t, sber.MarketValue.Equal(decimal.NewFromInt(3000)))
	require.NotNil(t, sber.UnrealizedPnl)
	assert.True(t, sber.UnrealizedPnl.Equal(decimal.NewFromInt(500)))

	gazp := summary.Positions[1]
	assert.Nil(t, gazp.MarketPrice)
	assert.Nil(t, gazp.UnrealizedPnl)

	assert.True(t, summary.TotalUnrealizedPnl.Equal(decimal.NewFromInt(500)))

	// пересчёт сохраняется в репозитории
	stored, err := repo.GetPosition(ctx, sber.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.MarketValue)
	assert.True(t, stored.MarketValue.Equal(decimal.NewFromInt(3000)))
}

func TestGetPortfolioSummaryMissingPortfolio(t *testing.T) {
	ctx := context.Background()
	srv := New(memory.New())

	_, err := srv.GetPortfolioSummary(ctx, 7)
	require.ErrorIs(t, err, service.ErrNotFound)
}
