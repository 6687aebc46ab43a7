package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/samber/do"
	"github.com/serroba/ttl-shortener/internal/shortener"
	"github.com/spf13/cobra"
)

const commandTimeout = 10 * time.Second

// shortenCommand prints the short URL for a long URL using the configured store.
func shortenCommand(injector **do.Injector) *cobra.Command {
	return &cobra.Command{
		Use:     "shorten <url>",
		Short:   "Create or reuse the short URL for a long URL",
		Example: "shortener shorten https://example.com/very/long/path",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := do.Invoke[*shortener.Service](*injector)
			if err != nil {
				return err
			}
			defer shutdown(*injector)

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			shortURL, err := service.Shorten(ctx, args[0])
			if err != nil {
				return err
			}

			return printJSON(cmd, map[string]any{
				"original_url": shortURL.OriginalURL,
				"short_code":   shortURL.Code,
				"short_url":    shortURL.ShortURL,
				"reused":       shortURL.Reused,
			})
		},
	}
}

// resolveCommand prints the long URL a code points to.
func resolveCommand(injector **do.Injector) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <code>",
		Short: "Print the original URL of a short code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := do.Invoke[*shortener.Service](*injector)
			if err != nil {
				return err
			}
			defer shutdown(*injector)

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			originalURL, err := service.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), originalURL)

			return nil
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func shutdown(injector *do.Injector) {
	if err := injector.Shutdown(); err != nil {
		fmt.Fprintln(os.Stderr, "shutdown error:", err)
	}
}
