package importService

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"rebalancer/config"
	"rebalancer/internal/importer"
	"rebalancer/internal/model"
	"rebalancer/internal/service"
	"rebalancer/utils"
)

type Parser interface {
	ParseStatement(ctx context.Context, grid importer.Grid) (model.BrokerStatement, error)
	MergePositions(ctx context.Context, grid importer.Grid) ([]model.MergedPosition, error)
}

type ImportService struct {
	cfg    *config.Config
	parser Parser
}

func New(cfg *config.Config, parser Parser) *ImportService {
	return &ImportService{
		cfg:    cfg,
		parser: parser,
	}
}

// ImportFromBytes загружает файл выписки и разбирает его в BrokerStatement.
// Любая ошибка загрузки или разбора оборачивается в service.ErrInvalidStatement.
func (s *ImportService) ImportFromBytes(ctx context.Context, fileBytes []byte, filename string) (model.BrokerStatement, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ImportService.ImportFromBytes"

	slog.Debug("ImportFromBytes start", slog.String("rqID", rqID), slog.String("op", op), slog.String("filename", filename), slog.Int("size", len(fileBytes)))
	defer func() {
		slog.Debug("ImportFromBytes finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	grid, err := importer.LoadGrid(fileBytes, filepath.Ext(filename), s.cfg.Import.SheetName)
	if err != nil {
		slog.Error("got error from importer.LoadGrid", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.BrokerStatement{}, fmt.Errorf("%w: %v", service.ErrInvalidStatement, err)
	}

	statement, err := s.parser.ParseStatement(ctx, grid)
	if err != nil {
		slog.Error("got error from parser.ParseStatement", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.BrokerStatement{}, fmt.Errorf("%w: %v", service.ErrInvalidStatement, err)
	}

	slog.Info(
		"statement imported",
		slog.String("rqID", rqID),
		slog.String("op", op),
		slog.String("accountNumber", statement.AccountNumber),
		slog.Int("positions", statement.TotalPositions()),
	)

	return statement, nil
}

// ValidateStatement собирает сводку по уже разобранной выписке.
func (s *ImportService) ValidateStatement(statement model.BrokerStatement) model.StatementValidation {
	return model.StatementValidation{
		Valid:          true,
		AccountNumber:  statement.AccountNumber,
		TotalPositions: statement.TotalPositions(),
		Bonds:          statement.Bonds(),
		Stocks:         statement.Stocks(),
		Etfs:           statement.ETFs(),
	}
}
