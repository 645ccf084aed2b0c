package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"caravanshare/internal/config"
	"caravanshare/internal/database"
	"caravanshare/internal/logging"
	"caravanshare/internal/seed"
	"caravanshare/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath   = flag.String("config", "configs/config.yaml", "path to config.yaml")
		fixturesPath = flag.String("fixtures", "", "path to fixtures yaml (defaults to seed.fixtures_path)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	path := *fixturesPath
	if path == "" {
		path = cfg.Seed.FixturesPath
	}
	if path == "" {
		return fmt.Errorf("no fixtures file: pass -fixtures or set seed.fixtures_path")
	}

	fixtures, err := seed.Load(path)
	if err != nil {
		return err
	}

	db, err := database.NewDBWithTimeout(cfg.Database.Path, cfg.Database.BusyTimeoutMS, logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	seeder := seed.NewSeeder(service.NewUserService(db, logger), db, service.NewCaravanService(db, logger), logger)
	res, err := seeder.Apply(ctx, fixtures)
	if err != nil {
		return err
	}

	fmt.Printf("Seed complete: users created=%d skipped=%d, caravans created=%d skipped=%d\n",
		res.UsersCreated, res.UsersSkipped, res.CaravansCreated, res.CaravansSkipped)
	return nil
}
