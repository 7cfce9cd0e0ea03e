package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/rogerio-castellano/bakery-api/internal/seed"
)

const dbCommandTimeout = 30 * time.Second

// bakery migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := boot()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), dbCommandTimeout)
		defer cancel()

		s, err := openSQLStore(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		return s.Close()
	},
}

// bakery seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample bakeries and baked goods into an empty database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := boot()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), dbCommandTimeout)
		defer cancel()

		s, err := openSQLStore(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		defer s.Close()

		res, err := seed.Run(ctx, s.bakeries, s.bakedGoods)
		if err != nil {
			return err
		}
		if res.Skipped {
			log.Info().Msg("database already has bakeries, seed skipped")
			return nil
		}
		log.Info().Int("bakeries", res.Bakeries).Int("baked_goods", res.BakedGoods).Msg("database seeded")
		return nil
	},
}
