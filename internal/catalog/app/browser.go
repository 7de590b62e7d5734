package app

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/time/rate"

	"catalog_browser/config"
	"catalog_browser/internal/catalog/clients"
	"catalog_browser/internal/catalog/session"
	"catalog_browser/internal/catalog/storage"
	"catalog_browser/metrics"
	"catalog_browser/migrations/querylog"
	"catalog_browser/pkg/dbconnect"
	"catalog_browser/pkg/dbconnect/migration"
	"catalog_browser/pkg/dbconnect/postgres"
	"catalog_browser/pkg/dbconnect/sqlite"
	"catalog_browser/pkg/logger"
	"catalog_browser/pkg/middleware"
)

// Browser собирает клиент каталога, сессию и необязательные журнал запросов и /metrics.
type Browser struct {
	Session *session.Session
	Client  *clients.CatalogClient
	History *storage.QueryLogRepository
	// Verbose дублирует журнал в стандартный log (stderr).
	Verbose bool

	config    *config.AppConfig
	log       logger.Logger
	writer    io.Writer
	connector dbconnect.Database
	db        *sql.DB
	metrics   *http.Server
}

func NewBrowser(cfg *config.AppConfig, writer io.Writer) *Browser {
	return &Browser{
		config: cfg,
		writer: writer,
	}
}

func (b *Browser) newLogger(prefix string) logger.Logger {
	if b.Verbose {
		return logger.NewLogger(b.writer, prefix)
	}
	return logger.NewSilentLogger(b.writer, prefix)
}

// HTTPClient строит клиент с цепочкой middleware: request id -> лимит -> метрики -> лог.
func HTTPClient(cfg config.CatalogConfig, log logger.Logger, base http.RoundTripper) *http.Client {
	limit := rate.Inf
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
	}
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: middleware.Chain(base,
			middleware.RequestID(),
			middleware.RateLimit(rate.NewLimiter(limit, cfg.RateLimit.Burst)),
			middleware.Prometheus(),
			middleware.Logging(log),
		),
	}
}

func (b *Browser) Start(ctx context.Context) error {
	b.log = b.newLogger("[CatalogBrowser]")
	httpLog := b.newLogger("[CatalogHTTP]")
	b.Client = clients.NewCatalogClient(b.config.Catalog.BaseURL,
		HTTPClient(b.config.Catalog, httpLog, http.DefaultTransport), httpLog)

	opts := []session.Option{session.WithPageSize(b.config.Catalog.PageSize)}
	if b.config.QueryLog.Driver != "" {
		if err := b.openQueryLog(); err != nil {
			return err
		}
		opts = append(opts, session.WithRecorder(b.History))
	}

	if addr := b.config.Metrics.Addr; addr != "" {
		b.serveMetrics(addr)
	}

	b.Session = session.New(b.Client, b.newLogger("[Session]"), opts...)
	return nil
}

func (b *Browser) openQueryLog() error {
	switch b.config.QueryLog.Driver {
	case config.DriverPostgres:
		b.connector = postgres.NewPgConnector(b.config.Postgres)
	case config.DriverSqlite:
		b.connector = sqlite.NewSqliteConnector(b.config.QueryLog.SqlitePath)
	default:
		return errors.Errorf("unsupported query log driver %q", b.config.QueryLog.Driver)
	}

	db, err := b.connector.Connect()
	if err != nil {
		return errors.Wrap(err, "connect query log")
	}
	if err := migration.Apply(db, querylog.All()...); err != nil {
		b.connector.Close()
		return errors.Wrap(err, "migrate query log")
	}
	b.db = db
	b.History = storage.NewQueryLogRepository(db, b.connector.Driver())
	b.log.Log("query log ready (%s)", b.connector.Driver())
	return nil
}

func (b *Browser) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.MetricsHandler())
	b.metrics = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := b.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			b.log.Error("metrics server: %v", err)
		}
	}()
	b.log.Log("metrics on %s/metrics", addr)
}

func (b *Browser) Close() error {
	var errs []error
	if b.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		errs = append(errs, b.metrics.Shutdown(ctx))
	}
	if b.connector != nil {
		errs = append(errs, b.connector.Close())
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
