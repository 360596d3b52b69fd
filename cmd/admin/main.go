// cmd/admin/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/andresuchdata/autopull/internal/repository/postgres"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func openDB(c *cli.Context) (*postgres.DB, error) {
	db, err := postgres.NewDBFromURL(c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "admin",
		Usage: "Operations tooling for the replenishment backend",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Create the document tables",
				Flags: []cli.Flag{newDBURLFlag()},
				Action: func(c *cli.Context) error {
					db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()
					if err := postgres.Migrate(c.Context, db.DB.DB); err != nil {
						return err
					}
					log.Println("Migration completed")
					return nil
				},
			},
			{
				Name:  "clear",
				Usage: "Reset the ledger, run history, and new-collection batch (limits survive)",
				Flags: []cli.Flag{newDBURLFlag()},
				Action: func(c *cli.Context) error {
					db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()
					if err := postgres.ResetDocuments(c.Context, db); err != nil {
						return err
					}
					log.Println("Documents cleared")
					return nil
				},
			},
			newSeedCommand(),
			newImportStockCommand(),
			newExportCommand(),
			newLimitsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
