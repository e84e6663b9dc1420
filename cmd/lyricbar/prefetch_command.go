package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"lyricbar/internal/logging"
	"lyricbar/internal/provider"
	"lyricbar/internal/provider/script"
	"lyricbar/internal/resolver"
	"lyricbar/internal/tags"
	"lyricbar/internal/track"
)

func newPrefetchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefetch <path>...",
		Short: "Warm the lyrics cache for audio files or directories",
		Long: `Warm the lyrics cache by resolving every audio file under the given
paths. Files whose lyrics are already embedded or cached are skipped cheaply;
the rest go through the external command, bounded by prefetch.workers.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.cfg

			files, err := collectAudioFiles(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return errors.New("no audio files found under the given paths")
			}

			journal, err := ctx.openHistory()
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			if journal != nil {
				defer journal.Close()
			}

			library := track.NewLibrary()
			chain := provider.Chain{script.New(scriptSettings(cfg), library, ctx.logger)}

			var found, missed atomic.Int64
			consumer := resolver.ConsumerFunc(func(_ track.Track, text string) {
				switch text {
				case resolver.LoadingText:
				case resolver.NotFoundText:
					missed.Add(1)
				default:
					found.Add(1)
				}
			})

			opts := []resolver.Option{}
			if journal != nil {
				opts = append(opts, resolver.WithJournal(journal))
			}
			r := resolver.New(library, ctx.cacheStore(), chain, consumer, ctx.logger, opts...)

			group, groupCtx := errgroup.WithContext(cmd.Context())
			group.SetLimit(cfg.Prefetch.Workers)
			for _, file := range files {
				group.Go(func() error {
					tr, err := tags.Load(library, file)
					if err != nil {
						ctx.logger.Warn("skipping unreadable file",
							logging.String(logging.FieldPath, file),
							logging.Error(err))
						return nil
					}
					r.Resolve(groupCtx, tr)
					return nil
				})
			}
			if err := group.Wait(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Resolved lyrics for %d of %d tracks (%d not found)\n",
				found.Load(), len(files), missed.Load())
			return nil
		},
	}

	return cmd
}

func collectAudioFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if tags.IsAudioFile(path) {
				files = append(files, path)
			}
			continue
		}
		err = filepath.WalkDir(path, func(entry string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !d.IsDir() && tags.IsAudioFile(entry) {
				files = append(files, entry)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
