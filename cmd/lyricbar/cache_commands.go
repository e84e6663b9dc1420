package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lyricbar/internal/tags"
	"lyricbar/internal/track"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the lyrics cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCachePathCommand(ctx))
	cacheCmd.AddCommand(newCacheRemoveCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached lyrics entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := ctx.cacheStore()
			entries, err := store.Entries()
			if err != nil {
				return fmt.Errorf("list cache: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache is empty.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.Name,
					fmt.Sprintf("%d B", entry.Size),
					entry.ModTime.Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Entry", "Size", "Modified"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))
			fmt.Fprintf(cmd.OutOrStdout(), "%d entries in %s\n", len(entries), store.Root())
			return nil
		},
	}
}

func newCachePathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache root directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), ctx.cacheStore().Root())
			return nil
		},
	}
}

func newCacheRemoveCommand(ctx *commandContext) *cobra.Command {
	var artistFlag string
	var titleFlag string

	cmd := &cobra.Command{
		Use:   "remove [audio-file...]",
		Short: "Remove cached lyrics for the given tracks",
		Long: `Remove cached lyrics entries. Pass audio files to derive each track's
artist and title from its tags, or name a single entry directly with
--artist and --title. Tracks without a cache entry are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := ctx.cacheStore()

			if artistFlag != "" || titleFlag != "" {
				if artistFlag == "" || titleFlag == "" {
					return errors.New("--artist and --title must be used together")
				}
				if len(args) > 0 {
					return errors.New("use either audio files or --artist/--title, not both")
				}
				if !store.Exists(artistFlag, titleFlag) {
					fmt.Fprintln(cmd.OutOrStdout(), "No cache entry for that track.")
					return nil
				}
				if err := store.Remove(artistFlag, titleFlag); err != nil {
					return fmt.Errorf("remove cache entry: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Removed 1 entry.")
				return nil
			}

			if len(args) == 0 {
				return errors.New("provide audio files or --artist/--title")
			}

			library := track.NewLibrary()
			removed := 0
			for _, file := range args {
				tr, err := tags.Load(library, file)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: %v\n", file, err)
					continue
				}
				artist, title, ok := library.Identity(tr)
				if !ok || !store.Exists(artist, title) {
					continue
				}
				if err := store.Remove(artist, title); err != nil {
					return fmt.Errorf("remove cache entry for %s: %w", file, err)
				}
				removed++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries.\n", removed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&artistFlag, "artist", "a", "", "Artist of the entry to remove")
	cmd.Flags().StringVarP(&titleFlag, "title", "t", "", "Title of the entry to remove")

	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var forceFlag bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached lyrics entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := ctx.cacheStore()
			entries, err := store.Entries()
			if err != nil {
				return fmt.Errorf("list cache: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache is already empty.")
				return nil
			}
			if !forceFlag {
				return fmt.Errorf("refusing to delete %d entries without --force", len(entries))
			}
			if err := store.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries.\n", len(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&forceFlag, "force", false, "Actually delete the entries")

	return cmd
}
