package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"rozgaarsetu/internal/config"
	"rozgaarsetu/internal/database"
	"rozgaarsetu/internal/models"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type CatalogFile struct {
	Categories []models.ServiceCategory `yaml:"categories"`
	Services   []models.Service         `yaml:"services"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		catalogPath = flag.String("catalog", "configs/catalog.yaml", "path to catalog.yaml")
		dbPath      = flag.String("db", "./data/rozgaarsetu.db", "path to sqlite db")
	)
	flag.Parse()

	data, err := os.ReadFile(*catalogPath)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	var catalog CatalogFile
	if err = yaml.Unmarshal(data, &catalog); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}
	if len(catalog.Services) == 0 {
		return fmt.Errorf("no services in yaml")
	}
	if err = config.ValidateCatalog(catalog.Categories, catalog.Services); err != nil {
		return fmt.Errorf("validate catalog: %w", err)
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err = db.SeedCatalog(ctx, catalog.Categories, catalog.Services); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	fmt.Printf("done: categories=%d services=%d\n", len(catalog.Categories), len(catalog.Services))
	return nil
}
