// Command billingctl runs operator tasks against the billing database:
// schema migration, menu seeding and import, and report exports.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sangkips/restaurant-billing/internal/application/service"
	"github.com/sangkips/restaurant-billing/internal/config"
	"github.com/sangkips/restaurant-billing/internal/infrastructure/database"
	"github.com/sangkips/restaurant-billing/internal/infrastructure/repository"
	"github.com/sangkips/restaurant-billing/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

func main() {
	app := &cli.App{
		Name:  "billingctl",
		Usage: "manage the restaurant billing database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "configuration file, environment variables override it",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "create or update the database schema",
				Action: withDB(runMigrate),
			},
			{
				Name:   "reset",
				Usage:  "drop and recreate every table",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "yes", Usage: "confirm destroying all data"}},
				Action: withDB(runReset),
			},
			{
				Name:   "seed",
				Usage:  "insert the sample menu when the menu is empty",
				Action: withDB(runSeed),
			},
			{
				Name:      "import-menu",
				Usage:     "replace the menu from a csv or xlsx file",
				ArgsUsage: "<file>",
				Action:    withDB(runImportMenu),
			},
			{
				Name:  "report",
				Usage: "export sales reports",
				Subcommands: []*cli.Command{
					{
						Name:   "sales",
						Usage:  "orders and revenue between two dates",
						Flags:  reportFlags(),
						Action: withDB(runSalesReport),
					},
					{
						Name:   "top-items",
						Usage:  "best-selling items between two dates",
						Flags:  append(reportFlags(), &cli.IntFlag{Name: "limit", Value: service.DefaultTopItemsLimit}),
						Action: withDB(runTopItemsReport),
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "billingctl:", err)
		os.Exit(1)
	}
}

func reportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "from", Required: true, Usage: "first day, YYYY-MM-DD"},
		&cli.StringFlag{Name: "to", Required: true, Usage: "last day, YYYY-MM-DD"},
		&cli.StringFlag{Name: "format", Value: "csv", Usage: "csv, xlsx or pdf"},
		&cli.StringFlag{Name: "out", Usage: "output file, defaults to the generated report name"},
	}
}

// env bundles what every subcommand needs
type env struct {
	cfg *config.Config
	db  *gorm.DB
	log *logrus.Logger
}

func withDB(fn func(*cli.Context, *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg := config.LoadFile(c.String("env-file"))
		if err := cfg.Validate(); err != nil {
			return err
		}
		log := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr})

		db, err := database.Open(&cfg.Database, log)
		if err != nil {
			return err
		}
		defer func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}()

		return fn(c, &env{cfg: cfg, db: db, log: log})
	}
}

func runMigrate(_ *cli.Context, e *env) error {
	return database.AutoMigrate(e.db, e.log)
}

func runReset(c *cli.Context, e *env) error {
	if !c.Bool("yes") {
		return fmt.Errorf("reset deletes all orders and menu items, rerun with --yes")
	}
	return database.Reset(e.db, e.log)
}

func runSeed(_ *cli.Context, e *env) error {
	if err := database.AutoMigrate(e.db, e.log); err != nil {
		return err
	}
	n, err := database.SeedSampleMenu(e.db, e.log)
	if err != nil {
		return err
	}
	fmt.Printf("seeded %d menu items\n", n)
	return nil
}

func runImportMenu(c *cli.Context, e *env) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("import-menu needs a file argument")
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := database.AutoMigrate(e.db, e.log); err != nil {
		return err
	}
	svc := service.NewMenuService(repository.NewMenuRepository(e.db), e.log)
	res, err := svc.ImportFile(context.Background(), path, f)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d menu items\n", res.Imported)
	return nil
}

func reportService(e *env) (*service.ReportService, error) {
	loc, err := e.cfg.App.Location()
	if err != nil {
		return nil, err
	}
	return service.NewReportService(repository.NewReportRepository(e.db), loc, e.cfg.Billing.StoreName, e.log), nil
}

func runSalesReport(c *cli.Context, e *env) error {
	svc, err := reportService(e)
	if err != nil {
		return err
	}
	export, err := svc.ExportSalesReport(context.Background(), c.String("from"), c.String("to"), c.String("format"))
	if err != nil {
		return err
	}
	return writeExport(c, export)
}

func runTopItemsReport(c *cli.Context, e *env) error {
	if strings.EqualFold(c.String("format"), "pdf") {
		return fmt.Errorf("top-items exports csv or xlsx")
	}
	svc, err := reportService(e)
	if err != nil {
		return err
	}
	export, err := svc.ExportTopItems(context.Background(), c.String("from"), c.String("to"), c.Int("limit"), c.String("format"))
	if err != nil {
		return err
	}
	return writeExport(c, export)
}

func writeExport(c *cli.Context, export *service.Export) error {
	out := c.String("out")
	if out == "" {
		out = export.Filename
	}
	if err := os.WriteFile(out, export.Data, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes)\n", out, len(export.Data))
	return nil
}
