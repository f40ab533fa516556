package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"api_retail/api"
	"api_retail/internal/auth"
	"api_retail/internal/config"
	"api_retail/internal/metrics"
	"api_retail/internal/reports"
	"api_retail/internal/store"
)

func main() {
	app := &cli.App{
		Name:  "api_retail",
		Usage: "retail store back office",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:   "check",
				Usage:  "log low stock, expiring products and upcoming events, then exit",
				Action: check,
			},
			{
				Name:  "export",
				Usage: "write a CSV report",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "report", Value: "sales", Usage: "sales or inventory"},
					&cli.StringFlag{Name: "period", Value: "all", Usage: "today, week, month, date or all"},
					&cli.StringFlag{Name: "date", Usage: "day for the date period, YYYY-MM-DD"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file, stdout when empty"},
				},
				Action: export,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    store.Store
	services api.Services
	settings api.Settings
}

func setup() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	var s store.Store
	switch cfg.StoreBackend {
	case "pebble":
		s, err = store.NewPebbleStore(cfg.PebbleDir)
		if err != nil {
			return nil, fmt.Errorf("open pebble store: %w", err)
		}
	default:
		s = store.NewMemoryStore()
	}
	logger.Info("record store ready", zap.String("backend", cfg.StoreBackend))

	settings := api.Settings{
		Location:          loc,
		LowStockThreshold: cfg.LowStockThreshold,
		ExpiryWarningDays: cfg.ExpiryWarningDays,
		LoyaltyIncrement:  cfg.LoyaltyIncrement,
	}
	return &runtime{
		cfg:      cfg,
		logger:   logger,
		store:    s,
		services: api.NewServices(s, auth.NewGate(cfg.AdminPassword), settings, logger, metrics.NewRegistry()),
		settings: settings,
	}, nil
}

func (rt *runtime) close() {
	if err := rt.store.Close(); err != nil {
		rt.logger.Error("failed to close record store", zap.Error(err))
	}
	_ = rt.logger.Sync()
}

func serve(c *cli.Context) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.close()

	rt.startupCheck(c.Context)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	api.InitRoutes(r, rt.services, rt.settings, rt.logger)

	rt.logger.Info("listening", zap.String("address", rt.cfg.HTTPAddress))
	if err := r.Run(rt.cfg.HTTPAddress); err != nil {
		return fmt.Errorf("error trying to start server: %w", err)
	}
	return nil
}

func check(c *cli.Context) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.close()
	rt.startupCheck(c.Context)
	return nil
}

// startupCheck logs the stock and calendar alerts once. Failures are logged
// and do not stop the service.
func (rt *runtime) startupCheck(ctx context.Context) {
	now := time.Now().In(rt.settings.Location)

	low, err := rt.services.Products.LowStock(ctx, rt.cfg.LowStockThreshold)
	if err != nil {
		rt.logger.Error("low stock check failed", zap.Error(err))
	}
	for _, p := range low {
		rt.logger.Warn("low stock", zap.String("product_id", p.ID), zap.String("name", p.Name), zap.Int("quantity", p.Quantity))
	}

	expiring, err := rt.services.Products.Expiring(ctx, now, rt.cfg.ExpiryWarningDays)
	if err != nil {
		rt.logger.Error("expiry check failed", zap.Error(err))
	}
	for _, p := range expiring {
		rt.logger.Warn("product expiring soon", zap.String("product_id", p.ID), zap.String("name", p.Name), zap.String("expiry_date", p.ExpiryDate))
	}

	upcoming, err := rt.services.Marketing.Upcoming(ctx)
	if err != nil {
		rt.logger.Error("seasonal event check failed", zap.Error(err))
	}
	for _, e := range upcoming {
		rt.logger.Info("seasonal event approaching", zap.String("event", e.Name), zap.Int("days_until", e.DaysUntil))
	}

	rt.logger.Info("startup check done",
		zap.Int("low_stock", len(low)),
		zap.Int("expiring", len(expiring)),
		zap.Int("upcoming_events", len(upcoming)),
	)
}

func export(c *cli.Context) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.close()

	var out io.Writer = os.Stdout
	if path := c.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}

	switch c.String("report") {
	case "inventory":
		return rt.services.Reports.ExportInventory(c.Context, out)
	case "sales":
		w, err := reports.ParseWindow(c.String("period"), c.String("date"), rt.settings.Location)
		if err != nil {
			return err
		}
		return rt.services.Reports.ExportSales(c.Context, out, w)
	default:
		return fmt.Errorf("unknown report %q", c.String("report"))
	}
}
