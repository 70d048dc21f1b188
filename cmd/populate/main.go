// Command populate fills the catalog database with sample data.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/config"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/database"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/logging"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/seed"
)

func main() {
	var (
		run   bool
		reset bool
		rseed int64
	)
	fs := flag.NewFlagSet("populate", flag.ExitOnError)
	fs.BoolVar(&run, "r", false, "Populate the database")
	fs.BoolVar(&reset, "reset", false, "Drop and recreate every table first")
	fs.Int64Var(&rseed, "seed", time.Now().UnixNano(), "Random seed for owners and dates")
	_ = fs.Parse(os.Args[1:])

	if !run {
		fmt.Fprintln(os.Stderr, "usage: populate -r [-reset] [-seed N]")
		fs.PrintDefaults()
		os.Exit(2)
	}

	logging.Setup()
	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	migrate := database.Migrate
	if reset {
		migrate = database.Reset
	}
	if err := migrate(database.DB); err != nil {
		slog.Error("schema setup failed", "reset", reset, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err := seed.New(database.DB, rseed).Populate(ctx); err != nil {
		slog.Error("populate failed", "error", err)
		os.Exit(1)
	}
}
