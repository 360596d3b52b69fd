package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/andresuchdata/autopull/internal/cache"
	"github.com/andresuchdata/autopull/internal/export"
	"github.com/andresuchdata/autopull/internal/ingest"
	"github.com/andresuchdata/autopull/internal/lock"
	"github.com/andresuchdata/autopull/internal/repository/postgres"
	"github.com/andresuchdata/autopull/internal/service"
	"github.com/urfave/cli/v2"
)

// newSeedCommand prepares a fresh database: migrate, write the default
// limit policy, and optionally load an initial stock report.
func newSeedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Migrate and seed defaults, optionally loading an initial stock report",
		Flags: []cli.Flag{
			newDBURLFlag(),
			&cli.IntFlag{Name: "default-min", Usage: "Default min pull", Value: 1},
			&cli.IntFlag{Name: "default-max", Usage: "Default max pull", Value: 10},
			&cli.StringFlag{Name: "stock-file", Usage: "Initial stock report (.xlsx or .csv)"},
		},
		Action: func(c *cli.Context) error {
			db, err := openDB(c)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.Migrate(c.Context, db.DB.DB); err != nil {
				return err
			}

			limits := postgres.NewLimitRepository(db, c.Int("default-min"), c.Int("default-max"))
			policy, err := limits.Load(c.Context)
			if err != nil {
				return err
			}
			policy.DefaultMin = c.Int("default-min")
			policy.DefaultMax = c.Int("default-max")
			if err := limits.Save(c.Context, policy); err != nil {
				return err
			}
			log.Printf("Limit policy seeded (min=%d, max=%d)", policy.DefaultMin, policy.DefaultMax)

			if file := c.String("stock-file"); file != "" {
				return importStockFile(c, db, file)
			}
			return nil
		},
	}
}

// newImportStockCommand loads a local stock report straight into the
// database, deriving the new-collection batch exactly like an API upload.
func newImportStockCommand() *cli.Command {
	return &cli.Command{
		Name:  "import-stock",
		Usage: "Replace the stock ledger from a local report file",
		Flags: []cli.Flag{
			newDBURLFlag(),
			&cli.StringFlag{Name: "file", Usage: "Stock report (.xlsx or .csv)", Required: true},
		},
		Action: func(c *cli.Context) error {
			db, err := openDB(c)
			if err != nil {
				return err
			}
			defer db.Close()
			return importStockFile(c, db, c.String("file"))
		},
	}
}

func importStockFile(c *cli.Context, db *postgres.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, format, err := ingest.Rows(filepath.Base(path), f)
	if err != nil {
		return err
	}

	stockService := service.NewStockService(
		postgres.NewLedgerRepository(db),
		postgres.NewRunRepository(db),
		postgres.NewCollectionRepository(db),
		lock.NewDocLocker(),
		cache.NewNoopDashboardCache(),
	)
	summary, err := stockService.Upload(c.Context, filepath.Base(path), rows)
	if err != nil {
		return err
	}

	log.Printf("Imported %d items from %s (%s, batch %s/%d)",
		summary.Items, path, format, summary.BatchMode, summary.BatchSize)
	return nil
}

// newExportCommand writes the current in-stock items to an XLSX file.
func newExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export current in-stock items to an XLSX file",
		Flags: []cli.Flag{
			newDBURLFlag(),
			&cli.StringFlag{Name: "out", Usage: "Output path", Value: "stock-export.xlsx"},
		},
		Action: func(c *cli.Context) error {
			db, err := openDB(c)
			if err != nil {
				return err
			}
			defer db.Close()

			ledger, err := postgres.NewLedgerRepository(db).Load(c.Context)
			if err != nil {
				return err
			}

			records := make([]export.Record, 0, len(ledger.Items))
			for _, item := range ledger.Items {
				if item.Qty <= 0 {
					continue
				}
				records = append(records, export.Record{
					Category: item.Category,
					SKU:      item.SKU,
					Size:     item.Size,
					Color:    item.Color,
					Qty:      item.Qty,
				})
			}
			sort.Slice(records, func(i, j int) bool {
				if records[i].Category != records[j].Category {
					return records[i].Category < records[j].Category
				}
				return records[i].SKU < records[j].SKU
			})

			workbook, err := export.WriteReport("Stock", records)
			if err != nil {
				return err
			}
			if err := workbook.SaveAs(c.String("out")); err != nil {
				return fmt.Errorf("save %s: %w", c.String("out"), err)
			}
			log.Printf("Exported %d records to %s", len(records), c.String("out"))
			return nil
		},
	}
}
