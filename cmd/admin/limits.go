package main

import (
	"fmt"
	"sort"

	"github.com/andresuchdata/autopull/internal/allocation"
	"github.com/andresuchdata/autopull/internal/domain"
	"github.com/andresuchdata/autopull/internal/repository/postgres"
	"github.com/urfave/cli/v2"
)

// Limit commands read and mutate the policy document directly. They share
// the API's sanitation rules so CLI writes can never produce bounds the
// engine would reject.
func newLimitsCommand() *cli.Command {
	return &cli.Command{
		Name:  "limits",
		Usage: "Inspect and edit the min/max pull policy",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the current policy",
				Flags: []cli.Flag{newDBURLFlag()},
				Action: func(c *cli.Context) error {
					policy, err := loadPolicy(c)
					if err != nil {
						return err
					}
					fmt.Printf("default: min=%d max=%d\n", policy.DefaultMin, policy.DefaultMax)
					skus := make([]string, 0, len(policy.SKUs))
					for sku := range policy.SKUs {
						skus = append(skus, sku)
					}
					sort.Strings(skus)
					for _, sku := range skus {
						bounds := policy.SKUs[sku]
						fmt.Printf("sku %s: min=%d max=%d\n", sku, bounds.Min, bounds.Max)
					}
					return nil
				},
			},
			{
				Name:  "set-default",
				Usage: "Set the default bounds",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{Name: "min", Required: true},
					&cli.IntFlag{Name: "max", Required: true},
				},
				Action: func(c *cli.Context) error {
					return mutatePolicy(c, func(policy *domain.LimitPolicy) {
						policy.DefaultMin = allocation.SanitizeBound(c.Int("min"))
						policy.DefaultMax = allocation.SanitizeBound(c.Int("max"))
					})
				},
			},
			{
				Name:  "set-sku",
				Usage: "Set a per-SKU override",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{Name: "sku", Required: true},
					&cli.IntFlag{Name: "min", Required: true},
					&cli.IntFlag{Name: "max", Required: true},
				},
				Action: func(c *cli.Context) error {
					sku := c.String("sku")
					if sku == "" {
						return fmt.Errorf("sku must not be empty")
					}
					return mutatePolicy(c, func(policy *domain.LimitPolicy) {
						policy.SKUs[sku] = domain.LimitBounds{
							Min: allocation.SanitizeBound(c.Int("min")),
							Max: allocation.SanitizeBound(c.Int("max")),
						}
					})
				},
			},
			{
				Name:  "delete-sku",
				Usage: "Remove a per-SKU override",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{Name: "sku", Required: true},
				},
				Action: func(c *cli.Context) error {
					return mutatePolicy(c, func(policy *domain.LimitPolicy) {
						delete(policy.SKUs, c.String("sku"))
					})
				},
			},
		},
	}
}

func loadPolicy(c *cli.Context) (*domain.LimitPolicy, error) {
	db, err := openDB(c)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return postgres.NewLimitRepository(db, 1, 10).Load(c.Context)
}

func mutatePolicy(c *cli.Context, apply func(*domain.LimitPolicy)) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	limits := postgres.NewLimitRepository(db, 1, 10)
	policy, err := limits.Load(c.Context)
	if err != nil {
		return err
	}
	apply(policy)
	if err := limits.Save(c.Context, policy); err != nil {
		return err
	}
	fmt.Printf("policy updated: default min=%d max=%d, %d sku overrides\n",
		policy.DefaultMin, policy.DefaultMax, len(policy.SKUs))
	return nil
}
