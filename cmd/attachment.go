package cmd

import (
	"fmt"
	"io"
	"os"

	"attachment-store/core/config"
	"attachment-store/core/logger"
	"attachment-store/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// attachmentCmd groups direct storage operations that bypass the HTTP server.
var attachmentCmd = &cobra.Command{
	Use:   "attachment",
	Short: "Operate on stored attachments directly",
}

var putCmd = &cobra.Command{
	Use:   "put <key> <file>",
	Short: "Store a local file under key (the file is left in place)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, logg, err := openAdapter(cmd)
		if err != nil {
			return err
		}

		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[1], err)
		}
		defer f.Close()

		if err := adapter.CreateFromStream(cmd.Context(), args[0], f); err != nil {
			return err
		}
		logg.Info("Stored", zap.String("key", args[0]), zap.String("file", args[1]))
		return nil
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <key> <url>",
	Short: "Download url and store it under key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, logg, err := openAdapter(cmd)
		if err != nil {
			return err
		}
		if err := adapter.CreateFromURL(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		logg.Info("Fetched", zap.String("key", args[0]), zap.String("url", args[1]))
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Write the attachment at key to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, _, err := openAdapter(cmd)
		if err != nil {
			return err
		}
		rc, err := adapter.ReadAsStream(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		defer rc.Close()

		_, err = io.Copy(cmd.OutOrStdout(), rc)
		return err
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls [key]",
	Short: "List the entries directly under key",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, _, err := openAdapter(cmd)
		if err != nil {
			return err
		}
		key := ""
		if len(args) == 1 {
			key = args[0]
		}
		names, err := adapter.ListDirectory(cmd.Context(), key)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <key>",
	Short: "Delete the attachment at key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, logg, err := openAdapter(cmd)
		if err != nil {
			return err
		}
		if err := adapter.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		logg.Info("Deleted", zap.String("key", args[0]))
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the configured storage backend is ready",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		adapter, err := storage.New(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage adapter: %w", err)
		}
		if !adapter.HealthCheck(cmd.Context()) {
			return fmt.Errorf("storage backend %s is not ready", cfg.Storage.Driver)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(attachmentCmd)
	attachmentCmd.AddCommand(putCmd, fetchCmd, getCmd, lsCmd, rmCmd, healthCmd)
}

// openAdapter loads configuration and returns an initialized adapter and logger.
func openAdapter(cmd *cobra.Command) (storage.Adapter, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	adapter, err := storage.New(cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create storage adapter: %w", err)
	}
	if err := adapter.Init(cmd.Context()); err != nil {
		return nil, nil, err
	}
	return adapter, logg, nil
}
