package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"rebalancer/data/repository"
	"rebalancer/internal/model"
)

// Memory — хранилище всех данных сервиса в памяти процесса.
// Идентификаторы монотонно растут, наружу отдаются только копии.
type Memory struct {
	mu              sync.RWMutex
	portfolios      map[int64]model.Portfolio
	positions       map[int64]model.Position
	securities      map[string]model.Security
	securitiesOrder []string
	quotes          map[string][]model.Quote
	nextPortfolioID int64
	nextPositionID  int64
}

func New() *Memory {
	return &Memory{
		portfolios: make(map[int64]model.Portfolio),
		positions:  make(map[int64]model.Position),
		securities: make(map[string]model.Security),
		quotes:     make(map[string][]model.Quote),
	}
}

func (m *Memory) CreatePortfolio(_ context.Context, name, description string) (model.Portfolio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextPortfolioID++
	now := time.Now()
	portfolio := model.Portfolio{
		ID:          m.nextPortfolioID,
		Name:        name,
		Description: description,
		TotalValue:  decimal.Zero,
		CashBalance: decimal.Zero,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.portfolios[portfolio.ID] = portfolio

	return portfolio, nil
}

func (m *Memory) GetPortfolio(_ context.Context, portfolioID int64) (model.Portfolio, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	portfolio, ok := m.portfolios[portfolioID]
	if !ok {
		return model.Portfolio{}, repository.ErrNotFound
	}
	return portfolio, nil
}

func (m *Memory) GetPortfolios(_ context.Context, limit, offset int) ([]model.Portfolio, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]model.Portfolio, 0, len(m.portfolios))
	for _, p := range m.portfolios {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	return paginate(all, limit, offset), nil
}

func (m *Memory) CreatePosition(_ context.Context, position model.Position) (model.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextPositionID++
	now := time.Now()
	position.ID = m.nextPositionID
	position.CreatedAt = now
	position.UpdatedAt = now
	m.positions[position.ID] = clonePosition(position)

	return position, nil
}

func (m *Memory) GetPosition(_ context.Context, positionID int64) (model.Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	position, ok := m.positions[positionID]
	if !ok {
		return model.Position{}, repository.ErrNotFound
	}
	return clonePosition(position), nil
}

func (m *Memory) GetPositionsForPortfolio(_ context.Context, portfolioID int64) ([]model.Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var res []model.Position
	for _, p := range m.positions {
		if p.PortfolioID == portfolioID {
			res = append(res, clonePosition(p))
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })

	return res, nil
}

func (m *Memory) UpdatePosition(_ context.Context, position model.Position) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.positions[position.ID]; !ok {
		return repository.ErrNotFound
	}
	position.UpdatedAt = time.Now()
	m.positions[position.ID] = clonePosition(position)

	return nil
}

func (m *Memory) InsertSecurity(_ context.Context, security model.Security) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.securities[security.Secid]; ok {
		return repository.ErrAlreadyExists
	}
	if security.CreatedAt.IsZero() {
		security.CreatedAt = time.Now()
	}
	m.securities[security.Secid] = security
	m.securitiesOrder = append(m.securitiesOrder, security.Secid)

	return nil
}

func (m *Memory) SecurityExists(_ context.Context, secid string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.securities[secid]
	return ok, nil
}

func (m *Memory) GetSecurities(_ context.Context, limit, offset int) ([]model.Security, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]model.Security, 0, len(m.securitiesOrder))
	for _, secid := range m.securitiesOrder {
		all = append(all, m.securities[secid])
	}

	return paginate(all, limit, offset), nil
}

func (m *Memory) InsertQuote(_ context.Context, quote model.Quote) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.quotes[quote.Secid] = append(m.quotes[quote.Secid], cloneQuote(quote))

	return nil
}

// GetLatestQuote возвращает последнюю добавленную котировку по инструменту.
func (m *Memory) GetLatestQuote(_ context.Context, secid string) (model.Quote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	quotes := m.quotes[secid]
	if len(quotes) == 0 {
		return model.Quote{}, repository.ErrNotFound
	}
	return cloneQuote(quotes[len(quotes)-1]), nil
}

func (m *Memory) ClearAll(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.portfolios = make(map[int64]model.Portfolio)
	m.positions = make(map[int64]model.Position)
	m.securities = make(map[string]model.Security)
	m.securitiesOrder = nil
	m.quotes = make(map[string][]model.Quote)
	m.nextPortfolioID = 0
	m.nextPositionID = 0
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) || offset < 0 {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func clonePosition(p model.Position) model.Position {
	p.AvgPrice = cloneDecimal(p.AvgPrice)
	p.MarketPrice = cloneDecimal(p.MarketPrice)
	p.MarketValue = cloneDecimal(p.MarketValue)
	p.UnrealizedPnl = cloneDecimal(p.UnrealizedPnl)
	p.TargetWeight = cloneDecimal(p.TargetWeight)
	p.ActualWeight = cloneDecimal(p.ActualWeight)
	return p
}

func cloneQuote(q model.Quote) model.Quote {
	q.Volume = cloneDecimal(q.Volume)
	q.Bid = cloneDecimal(q.Bid)
	q.Ask = cloneDecimal(q.Ask)
	return q
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
