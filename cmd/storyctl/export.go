package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"bedtime-server/internal/database"
	"bedtime-server/internal/events"
	"bedtime-server/internal/render"
	"bedtime-server/internal/repository"
	"bedtime-server/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExportCmd() *cobra.Command {
	var userID, storyID, out string
	var imageBases []string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Render a saved story to PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := resolveDSN()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			pool, err := database.Connect(ctx, database.PoolConfig{DSN: dsn, MaxConns: 2, MaxRetries: 1}, zap.NewNop())
			if err != nil {
				return err
			}
			defer pool.Close()

			stories := service.NewStoryService(
				repository.NewPgStoryRepository(pool, zap.NewNop()),
				events.Noop{},
				render.NewPDFRenderer(render.NewRefLoader(render.RefLoaderConfig{
					Timeout:         30 * time.Second,
					AllowedBaseURLs: imageBases,
				}), zap.NewNop()),
				zap.NewNop(),
			)
			return runExport(ctx, stories, userID, storyID, out, cmd.OutOrStdout())
		},
	}
	exportCmd.Flags().StringVarP(&userID, "user", "u", "", "Owner user ID (required)")
	exportCmd.Flags().StringVarP(&storyID, "story", "s", "", "Story ID (required)")
	exportCmd.Flags().StringVarP(&out, "out", "o", "", "Output file (defaults to the story's file name, - for stdout)")
	exportCmd.Flags().StringSliceVar(&imageBases, "image-base-url", nil, "Base URL illustrations may be downloaded from (repeatable)")
	_ = exportCmd.MarkFlagRequired("user")
	_ = exportCmd.MarkFlagRequired("story")
	return exportCmd
}

func runExport(ctx context.Context, stories service.StoryService, userID, storyID, out string, stdout io.Writer) error {
	export, err := stories.ExportPDF(ctx, userID, storyID)
	if err != nil {
		return fmt.Errorf("export story %s: %w", storyID, err)
	}
	if out == "-" {
		_, err = stdout.Write(export.Data)
		return err
	}
	if out == "" {
		out = export.Filename
	}
	if err := os.WriteFile(out, export.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	log.Info().Str("story", storyID).Str("file", out).Int("bytes", len(export.Data)).Msg("Story exported")
	return nil
}
