package server

import (
	"context"
	"net/http"

	"github.com/bizbooks/salesledger/internal/coa"
	"github.com/bizbooks/salesledger/internal/config"
	"github.com/bizbooks/salesledger/internal/customer"
	customerdomain "github.com/bizbooks/salesledger/internal/customer/domain"
	"github.com/bizbooks/salesledger/internal/ledger"
	ledgerdomain "github.com/bizbooks/salesledger/internal/ledger/domain"
	"github.com/bizbooks/salesledger/internal/migration"
	obsmetrics "github.com/bizbooks/salesledger/internal/observability/metrics"
	"github.com/bizbooks/salesledger/internal/payment"
	paymentdomain "github.com/bizbooks/salesledger/internal/payment/domain"
	"github.com/bizbooks/salesledger/internal/sale"
	saledomain "github.com/bizbooks/salesledger/internal/sale/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	coa.Module,
	ledger.Module,
	sale.Module,
	payment.Module,
	customer.Module,
	migration.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !cfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(log))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// Server holds the HTTP handlers' service dependencies.
type Server struct {
	engine      *gin.Engine
	log         *zap.Logger
	saleSvc     saledomain.Service
	paymentSvc  paymentdomain.Service
	customerSvc customerdomain.Service
	ledgerSvc   ledgerdomain.Service
}

type ServerParams struct {
	fx.In

	Engine      *gin.Engine
	Log         *zap.Logger
	SaleSvc     saledomain.Service
	PaymentSvc  paymentdomain.Service
	CustomerSvc customerdomain.Service
	LedgerSvc   ledgerdomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:      p.Engine,
		log:         p.Log.Named("http.server"),
		saleSvc:     p.SaleSvc,
		paymentSvc:  p.PaymentSvc,
		customerSvc: p.CustomerSvc,
		ledgerSvc:   p.LedgerSvc,
	}
}

func registerRoutes(s *Server) {
	v1 := s.engine.Group("/v1")

	v1.POST("/sales", s.CreateSale)
	v1.GET("/sales", s.ListSales)
	v1.GET("/sales/:id", s.GetSale)
	v1.POST("/sales/:id/payments", s.RecordPayment)
	v1.GET("/sales/:id/payments", s.ListSalePayments)
	v1.GET("/customers/:id/balance", s.GetCustomerBalance)
	v1.GET("/accounts", s.ListAccounts)
	v1.GET("/journal-entries", s.ListJournalEntries)
}

func run(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
