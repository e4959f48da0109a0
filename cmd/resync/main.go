// Command resync rebuilds one month sheet from the SQLite database.
//
//	resync -year 2024 -month 3
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"financeiro/internal/cli"
	"financeiro/internal/core"
	applog "financeiro/internal/log"
	"financeiro/internal/services"
)

func main() {
	now := time.Now()
	year := flag.Int("year", now.Year(), "year of the sheet to rebuild")
	month := flag.Int("month", int(now.Month()), "month of the sheet to rebuild (1-12)")
	flag.Parse()

	key := core.SheetKey{Year: *year, Month: *month}
	if err := key.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid sheet %d/%d: %v\n", *month, *year, err)
		os.Exit(2)
	}

	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentResync)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()
	mirror := cli.InitMirror(ctx, logger, cfg)

	report, err := services.NewResync(repo, mirror.Mirror).Month(ctx, key)
	if err != nil {
		logger.Error("Resync failed", applog.FieldSheet, key.String(), applog.FieldError, err)
		os.Exit(1)
	}
	fmt.Printf("%s: %d updated, %d appended, %d deleted\n", key, report.Updated, report.Appended, report.Deleted)
}
