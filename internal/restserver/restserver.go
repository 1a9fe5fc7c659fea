package restserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"rebalancer/config"
	"rebalancer/internal/transport/rest"
	customMW "rebalancer/internal/transport/rest/middleware"
)

type RestServer struct {
	cfg    *config.Config
	ctrl   *rest.Controller
	server *http.Server
}

func New(cfg *config.Config, ctrl *rest.Controller) *RestServer {
	s := &RestServer{cfg: cfg, ctrl: ctrl}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Rest.Port),
		Handler:      s.setupRoutes(),
		ReadTimeout:  cfg.Rest.ReadTimeout,
		WriteTimeout: cfg.Rest.WriteTimeout,
	}

	return s
}

func (s *RestServer) Start() {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("error while server.ListenAndServe", slog.String("err", err.Error()))
			panic(err)
		}
	}()
	slog.Info("rest server started!", slog.Int("port", s.cfg.Rest.Port))
}

func (s *RestServer) Stop(ctx context.Context) {
	slog.Info("start stopping rest server")
	if err := s.server.Shutdown(ctx); err != nil {
		slog.Error("error while server.Shutdown", slog.String("err", err.Error()))
	}
	slog.Info("rest server stopped")
}

func (s *RestServer) setupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(customMW.Logger)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", s.ctrl.Root)
	r.Get("/health", s.ctrl.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/import", func(r chi.Router) {
			r.Post("/broker-statement", s.ctrl.ImportBrokerStatement)
			r.Post("/broker-statement/validate", s.ctrl.ValidateBrokerStatement)
			r.Get("/broker-statement/example", s.ctrl.StatementExample)
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Post("/", s.ctrl.CreatePortfolio)
			r.Get("/", s.ctrl.GetPortfolios)
			r.Post("/positions", s.ctrl.CreatePosition)
			r.Route("/{portfolioID}", func(r chi.Router) {
				r.Get("/", s.ctrl.GetPortfolio)
				r.Get("/summary", s.ctrl.GetPortfolioSummary)
				r.Get("/positions", s.ctrl.GetPortfolioPositions)
			})
		})

		r.Route("/marketdata", func(r chi.Router) {
			r.Get("/securities", s.ctrl.GetSecurities)
			r.Post("/securities/sync", s.ctrl.SyncSecurities)
			r.Post("/quotes/{secid}/sync", s.ctrl.SyncQuotes)
			r.Get("/quotes/{secid}/latest", s.ctrl.GetLatestQuote)
		})
	})

	return r
}
