package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"rozgaarsetu/internal/config"
	"rozgaarsetu/internal/database"
	"rozgaarsetu/internal/export"
	"rozgaarsetu/internal/logging"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	var (
		fromFlag    = flag.String("from", "", "start date (YYYY-MM-DD), defaults to 30 days ago")
		toFlag      = flag.String("to", "", "end date (YYYY-MM-DD), defaults to today")
		workersFlag = flag.Bool("workers", false, "export worker profiles instead of bookings")
	)
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer closer.Close()
	}
	logger := baseLogger.With().Str("component", "export").Logger()

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	exporter := export.NewExporter(db, cfg.Exports.Path, &logger)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if *workersFlag {
		path, err := exporter.ExportWorkers(ctx)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	}

	endDate := time.Now()
	if *toFlag != "" {
		endDate, err = time.Parse("2006-01-02", *toFlag)
		if err != nil {
			return fmt.Errorf("invalid -to date: %w", err)
		}
		endDate = endDate.AddDate(0, 0, 1) // include the whole end day
	}
	startDate := endDate.AddDate(0, 0, -30)
	if *fromFlag != "" {
		startDate, err = time.Parse("2006-01-02", *fromFlag)
		if err != nil {
			return fmt.Errorf("invalid -from date: %w", err)
		}
	}

	path, err := exporter.ExportBookings(ctx, startDate, endDate)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
