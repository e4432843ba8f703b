// Command yieldimport loads yield history rows from an .xlsx or .csv file
// into the yield store. The whole file is validated before anything is
// written, and the rows are appended in one transaction.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/agrodesk/farmers-api/internal/app"
	"github.com/agrodesk/farmers-api/internal/config"
	"github.com/agrodesk/farmers-api/internal/importer"
	"github.com/agrodesk/farmers-api/internal/logging"
	"github.com/agrodesk/farmers-api/internal/metrics"
	"github.com/agrodesk/farmers-api/internal/repository"
	"github.com/agrodesk/farmers-api/internal/repository/db"
	"github.com/agrodesk/farmers-api/internal/service"
	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	file := flag.String("file", "", "path to an .xlsx or .csv file with Date and Yield_kg_per_hectare columns")
	sheet := flag.String("sheet", "", "worksheet to read (default: first sheet)")
	dryRun := flag.Bool("dry-run", false, "parse and validate only")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*file, *sheet, *dryRun); err != nil {
		log.Fatal(err)
	}
}

func run(file, sheet string, dryRun bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	defer logging.Setup(cfg.Logging, cfg.IsProduction())()

	records, err := importer.ReadFile(file, sheet)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}
	if len(records) == 0 {
		return errors.New("no yield rows found")
	}

	if dryRun {
		for i, r := range records {
			if err := r.Validate(); err != nil {
				return fmt.Errorf("record %d: %w", i+1, err)
			}
		}
		fmt.Printf("%s rows valid, nothing written\n", humanize.Comma(int64(len(records))))
		return nil
	}

	dbType := db.ParseDatabaseType(cfg.Database.Type)
	conn, err := db.Open(db.DatabaseConfig{
		Type:         dbType,
		Name:         app.StoreYield,
		DSN:          cfg.Database.Yield.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	repo := repository.NewAdapter(conn, string(dbType)).YieldRepository()
	svc := service.NewYieldService(repo, metrics.NewMetrics(prometheus.NewRegistry()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	n, err := svc.Import(ctx, records)
	if err != nil {
		return err
	}

	slog.Info("yield history imported", "file", file, "rows", n)
	fmt.Printf("imported %s rows into %s\n", humanize.Comma(int64(n)), cfg.Database.Yield.RedactedDSN())
	return nil
}
