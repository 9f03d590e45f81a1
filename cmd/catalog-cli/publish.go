package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/back1ply/Catalog-of-BI-tools/internal/cache"
	"github.com/back1ply/Catalog-of-BI-tools/internal/ingest"
)

func newPublishCmd() *cobra.Command {
	var (
		from string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a generated collection to Redis",
		Long: `Publish stores the collection, its facet index and its generation summary
as JSON documents under the configured key prefix, replacing the previous
snapshot. The meta key is written last.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			if from == "" {
				from = cfg.Output.Path
			}
			if !cmd.Flags().Changed("ttl") {
				ttl = cfg.Cache.TTL
			}
			records, err := loadRecords(from)
			if err != nil {
				return err
			}

			spin := StartSpinner("Connecting to Redis...", outputJSON)
			client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
				Addr:     cfg.Cache.Redis.Addr,
				Password: cfg.Cache.Redis.Password,
				DB:       cfg.Cache.Redis.DB,
				PoolSize: cfg.Cache.Redis.PoolSize,
				Prefix:   cfg.Cache.Redis.Prefix,
			})
			if err != nil {
				spin.Stop()
				ui.Error("redis unavailable: %v", err)
				return err
			}
			defer client.Close()

			spin.Update("Publishing...")
			meta, err := cache.NewPublisher(client, ttl).Publish(ctx, from, records, ingest.Summarize(records))
			spin.Stop()
			if err != nil {
				ui.Error("publish failed: %v", err)
				return err
			}

			logger.Info().
				Str("addr", cfg.Cache.Redis.Addr).
				Str("prefix", cfg.Cache.Redis.Prefix).
				Int("records", meta.RecordCount).
				Msg("catalog published")

			if outputJSON {
				return printJSON(meta)
			}
			ui.Success("Published %d tools to %s (prefix %q)", meta.RecordCount, cfg.Cache.Redis.Addr, cfg.Cache.Redis.Prefix)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "collection JSON (default: configured output)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "expiry for published keys (0 = none; default from config)")

	return cmd
}
