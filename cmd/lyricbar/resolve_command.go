package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lyricbar/internal/provider"
	"lyricbar/internal/provider/script"
	"lyricbar/internal/resolver"
	"lyricbar/internal/tags"
	"lyricbar/internal/track"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var artistFlag string
	var titleFlag string

	cmd := &cobra.Command{
		Use:   "resolve [audio-file]",
		Short: "Resolve lyrics for a track and print them",
		Long: `Resolve lyrics for a track and print them to stdout.

The track is either an audio file (tags are read for artist, title, and any
embedded lyrics) or an --artist/--title pair. Resolution checks embedded
metadata first, then the disk cache, then the configured external command.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.cfg
			library := track.NewLibrary()

			var tr track.Track
			if len(args) == 1 {
				loaded, err := tags.Load(library, args[0])
				if err != nil {
					return err
				}
				tr = loaded
			} else {
				if artistFlag == "" || titleFlag == "" {
					return errors.New("provide an audio file, or both --artist and --title")
				}
				tr = library.Add("", map[string]string{
					track.FieldArtist: artistFlag,
					track.FieldTitle:  titleFlag,
				})
			}

			journal, err := ctx.openHistory()
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			if journal != nil {
				defer journal.Close()
			}

			chain := provider.Chain{script.New(scriptSettings(cfg), library, ctx.logger)}
			consumer := resolver.ConsumerFunc(func(_ track.Track, text string) {
				if text == resolver.LoadingText {
					fmt.Fprintln(cmd.ErrOrStderr(), text)
					return
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
			})

			opts := []resolver.Option{}
			if journal != nil {
				opts = append(opts, resolver.WithJournal(journal))
			}

			r := resolver.New(library, ctx.cacheStore(), chain, consumer, ctx.logger, opts...)
			r.Resolve(cmd.Context(), tr)
			return nil
		},
	}

	cmd.Flags().StringVarP(&artistFlag, "artist", "a", "", "Artist name (with --title)")
	cmd.Flags().StringVarP(&titleFlag, "title", "t", "", "Song title (with --artist)")

	return cmd
}
