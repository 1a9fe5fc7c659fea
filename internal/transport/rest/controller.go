package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"rebalancer/config"
	"rebalancer/internal/converter/restConverter"
	"rebalancer/internal/model"
	"rebalancer/internal/model/restModel"
	"rebalancer/internal/service"
	"rebalancer/utils"
)

const (
	excelOnlyErrMsg        = "Поддерживаются только Excel файлы (.xls, .xlsx)"
	fileFieldErrMsg        = "Не удалось прочитать файл из поля file"
	importInternalErrMsg   = "Внутренняя ошибка при обработке файла"
	validateInternalErrMsg = "Внутренняя ошибка при валидации файла"
)

const (
	defaultListLimit  = 100
	defaultListOffset = 0
)

type ImportService interface {
	ImportFromBytes(ctx context.Context, fileBytes []byte, filename string) (model.BrokerStatement, error)
	ValidateStatement(statement model.BrokerStatement) model.StatementValidation
}

type PortfolioService interface {
	CreatePortfolio(ctx context.Context, name, description string) (model.Portfolio, error)
	GetPortfolio(ctx context.Context, portfolioID int64) (model.Portfolio, error)
	GetPortfolios(ctx context.Context, limit, offset int) ([]model.Portfolio, error)
	GetPortfolioPositions(ctx context.Context, portfolioID int64) ([]model.Position, error)
	CreatePosition(ctx context.Context, position model.Position) (model.Position, error)
	GetPortfolioSummary(ctx context.Context, portfolioID int64) (model.PortfolioSummary, error)
}

type MarketDataService interface {
	GetSecurities(ctx context.Context, limit, offset int) ([]model.Security, error)
	SyncSecurities(ctx context.Context) (int, error)
	SyncQuotes(ctx context.Context, secid string) (int, error)
	GetLatestQuote(ctx context.Context, secid string) (model.Quote, error)
}

type Controller struct {
	cfg               *config.Config
	importService     ImportService
	portfolioService  PortfolioService
	marketDataService MarketDataService
}

func NewController(
	cfg *config.Config,
	importService ImportService,
	portfolioService PortfolioService,
	marketDataService MarketDataService,
) *Controller {
	return &Controller{
		cfg:               cfg,
		importService:     importService,
		portfolioService:  portfolioService,
		marketDataService: marketDataService,
	}
}

func (ctrl *Controller) sendError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	render.Status(r, status)
	render.JSON(w, r, restModel.ErrorResponse{Detail: detail})
}

func (ctrl *Controller) Root(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, restModel.RootResponse{
		Message: "Rebalancer API",
		Version: ctrl.cfg.Version,
	})
}

func (ctrl *Controller) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, restModel.HealthResponse{Status: "healthy"})
}

// statementFromUpload извлекает файл из multipart-поля file и разбирает его.
// При ошибке сам пишет ответ и возвращает false.
func (ctrl *Controller) statementFromUpload(w http.ResponseWriter, r *http.Request, internalErrMsg string) (model.BrokerStatement, bool) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, ctrl.cfg.Import.FileLimitInBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		ctrl.sendError(w, r, http.StatusBadRequest, fileFieldErrMsg)
		return model.BrokerStatement{}, false
	}
	defer file.Close()

	filename := header.Filename
	if !strings.HasSuffix(filename, ".xls") && !strings.HasSuffix(filename, ".xlsx") {
		ctrl.sendError(w, r, http.StatusBadRequest, excelOnlyErrMsg)
		return model.BrokerStatement{}, false
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		slog.Error("got error from io.ReadAll", slog.String("rqID", rqID), slog.String("err", err.Error()))
		ctrl.sendError(w, r, http.StatusInternalServerError, fmt.Sprintf("%s: %s", internalErrMsg, err.Error()))
		return model.BrokerStatement{}, false
	}

	statement, err := ctrl.importService.ImportFromBytes(ctx, fileBytes, filename)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatement) {
			ctrl.sendError(w, r, http.StatusBadRequest, err.Error())
			return model.BrokerStatement{}, false
		}
		slog.Error("got error from importService.ImportFromBytes", slog.String("rqID", rqID), slog.String("err", err.Error()))
		ctrl.sendError(w, r, http.StatusInternalServerError, fmt.Sprintf("%s: %s", internalErrMsg, err.Error()))
		return model.BrokerStatement{}, false
	}

	return statement, true
}

func (ctrl *Controller) ImportBrokerStatement(w http.ResponseWriter, r *http.Request) {
	statement, ok := ctrl.statementFromUpload(w, r, importInternalErrMsg)
	if !ok {
		return
	}

	render.JSON(w, r, restConverter.ConvertStatement(statement))
}

func (ctrl *Controller) ValidateBrokerStatement(w http.ResponseWriter, r *http.Request) {
	statement, ok := ctrl.statementFromUpload(w, r, validateInternalErrMsg)
	if !ok {
		return
	}

	validation := ctrl.importService.ValidateStatement(statement)
	render.JSON(w, r, restConverter.ConvertStatementValidation(validation))
}

func (ctrl *Controller) StatementExample(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, restModel.StatementFormatResponse{
		Description:   "Формат брокерского отчета",
		RequiredSheet: ctrl.cfg.Import.SheetName,
		Structure: restModel.StatementFormatStructure{
			AccountInfo: "Строка 3-4: Информация о счете",
			BondsSection: restModel.StatementFormatSection{
				Start:   "Строка с текстом 'Сведения о ценных бумагах'",
				Headers: "Следующая строка: Эмитент, Наименование ценной бумаги, Идентификационный номер, ISIN, Валюта/номер/серия, Остаток (шт.)",
				Data:    "Последующие строки с данными об облигациях",
			},
			StocksSection: restModel.StatementFormatSection{
				Start:   "Строка с текстом 'Сведения о ценных бумагах, Classica'",
				Headers: "Те же заголовки что и для облигаций",
				Data:    "Данные об акциях и ETF",
			},
		},
		Columns: []restModel.StatementFormatColumn{
			{Name: "Эмитент", Description: "Наименование эмитента ценной бумаги"},
			{Name: "Наименование ценной бумаги", Description: "Тип: акция, облигация, ПИФ"},
			{Name: "Идентификационный номер", Description: "Торговый код на бирже"},
			{Name: "ISIN", Description: "Международный идентификационный код"},
			{Name: "Валюта/номер/серия", Description: "Дополнительная информация (может быть пустой)"},
			{Name: "Остаток (шт.)", Description: "Количество ценных бумаг в штуках"},
		},
	})
}

func (ctrl *Controller) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	var req restModel.PortfolioCreateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		ctrl.sendError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		ctrl.sendError(w, r, http.StatusBadRequest, "Name is required")
		return
	}

	portfolio, err := ctrl.portfolioService.CreatePortfolio(ctx, req.Name, req.Description)
	if err != nil {
		slog.Error("got error from portfolioService.CreatePortfolio", slog.String("rqID", rqID), slog.String("err", err.Error()))
		ctrl.sendError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	render.JSON(w, r, restConverter.ConvertPortfolio(portfolio))
}

func (ctrl *Controller) GetPortfolios(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	limit := queryIntParam(r, "limit", defaultListLimit)
	offset := queryIntParam(r, "offset", defaultListOffset)

	portfolios, err := ctrl.portfolioService.GetPortfolios(ctx, limit, offset)
	if err != nil {
		slog.Error("got error from portfolioService.GetPortfolios", slog.String("rqID", rqID), slog.String("err", err.Error()))
		ctrl.sendError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	render.JSON(w, r, restConverter.ConvertPortfolios(portfolios))
}

func (ctrl *Controller) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	portfolioID, ok := ctrl.portfolioIDFromURL(w, r)
	if !ok {
		return
	}

	portfolio, err := ctrl.portfolioService.GetPortfolio(ctx, portfolioID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			ctrl.sendError(w, r, http.StatusNotFound, "Portfolio not found")
			return
		}
		slog.Error("got error from portfolioService.GetPortfolio", slog.String("rqID", rqID), slog.String("err", err.Error()))
		ctrl.sendError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	render.JSON(w, r, restConverter.ConvertPortfolio(portfolio))
}

func (ctrl *Controller) GetPortfolioSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	portfolioID, ok := ctrl.portfolioIDFromURL(w, r)
	if !ok {
		return
	}

	summary, err := ctrl.portfolioService.GetPortfolioSummary(ctx, portfolioID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			ctrl.sendError(w, r, http.StatusNotFound, "Portfolio not found")
			return
		}
		slog.Error("got error from portfolioService.GetPortfolioSummary", slog.String("rqID", rqID), slog.String("err", err.Error()))
		ctrl.sendError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	render.JSON(w, r, restConverter.ConvertPortfolioSummary(summary))
}

func (ctrl *Controller) GetPortfolioPositions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	portfolioID, ok := ctrl.portfolioIDFromURL(w, r)
	if !ok {
		return
	}

	positions, err := ctrl.portfolioService.GetPortfolioPositions(ctx, portfolioID)
	if err != nil {
		slog.Error("got error from portfolioService.GetPortfolioPositions", slog.String("rqID", rqID), slog.String("err", err.Error()))
		ctrl.sendError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	render.JSON(w, r, restConverter.ConvertPortfolioPositions(positions))
}

func (ctrl *Controller) CreatePosition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	var req restModel.PositionCreateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		ctrl.sendError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Secid) == "" {
		ctrl.sendError(w, r, http.StatusBadRequest, "Secid is required")
		return
	}

	position := model.Position{
		PortfolioID:  req.PortfolioID,
		Secid:        req.Secid,
		Quantity:     req.Quantity,
		AvgPrice:     req.AvgPrice,
		TargetWeight: req.TargetWeight,
	}

	created, err := ctrl.portfolioService.CreatePosition(ctx, position)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			ctrl.sendError(w, r, http.StatusNotFound, "Portfolio not found")
			return
		}
		slog.Error("got error from portfolioService.CreatePosition", slog.String("rqID", rqID), slog.String("err", err.Error()))
		ctrl.sendError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	render.JSON(w, r, restConverter.ConvertPortfolioPosition(created))
}

func (ctrl *Controller) GetSecurities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	limit := queryIntParam(r, "limit", defaultListLimit)
	offset := queryIntParam(r, "offset", defaultListOffset)

	securities, err := ctrl.marketDataService.GetSecurities(ctx, limit, offset)
	if err != nil {
		slog.Error("got error from marketDataService.GetSecurities", slog.String("rqID", rqID), slog.String("err", err.Error()))
		ctrl.sendError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	render.JSON(w, r, restConverter.ConvertSecurities(securities))
}

func (ctrl *Controller) SyncSecurities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	count, err := ctrl.marketDataService.SyncSecurities(ctx)
	if err != nil {
		slog.Error("got error from marketDataService.SyncSecurities", slog.String("rqID", rqID), slog.String("err", err.Error()))
		ctrl.sendError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	render.JSON(w, r, restModel.MessageResponse{Message: fmt.Sprintf("Synchronized %d securities", count)})
}

func (ctrl *Controller) SyncQuotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	secid := chi.URLParam(r, "secid")

	count, err := ctrl.marketDataService.SyncQuotes(ctx, secid)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			ctrl.sendError(w, r, http.StatusNotFound, "Security not found")
			return
		}
		slog.Error("got error from marketDataService.SyncQuotes", slog.String("rqID", rqID), slog.String("err", err.Error()))
		ctrl.sendError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	render.JSON(w, r, restModel.MessageResponse{Message: fmt.Sprintf("Synchronized %d quotes", count)})
}

func (ctrl *Controller) GetLatestQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	secid := chi.URLParam(r, "secid")

	quote, err := ctrl.marketDataService.GetLatestQuote(ctx, secid)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			ctrl.sendError(w, r, http.StatusNotFound, "Quote not found")
			return
		}
		slog.Error("got error from marketDataService.GetLatestQuote", slog.String("rqID", rqID), slog.String("err", err.Error()))
		ctrl.sendError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	render.JSON(w, r, restConverter.ConvertQuote(quote))
}

func (ctrl *Controller) portfolioIDFromURL(w http.ResponseWriter, r *http.Request) (int64, bool) {
	portfolioID, err := strconv.ParseInt(chi.URLParam(r, "portfolioID"), 10, 64)
	if err != nil {
		ctrl.sendError(w, r, http.StatusBadRequest, "Invalid portfolio ID")
		return 0, false
	}
	return portfolioID, true
}

func queryIntParam(r *http.Request, name string, defaultValue int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}
