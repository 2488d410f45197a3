package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pactlab/pactmock/pkg/generate"
	"github.com/pactlab/pactmock/pkg/logging"
	"github.com/pactlab/pactmock/pkg/mockserver"
	"github.com/pactlab/pactmock/pkg/pact"
)

type serveFlags struct {
	tls       bool
	pactDir   string
	overwrite bool
	mode      string
	logLevel  string
	logFormat string
}

// shutdownGrace bounds how long serve waits for the mock server to drain
// in-flight requests once a shutdown signal arrives.
const shutdownGrace = 30 * time.Second

func newServeCmd() *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "serve <contract.json>",
		Short: "Start an in-process mock server replaying a Pact contract file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, args[0], f)
		},
	}
	cmd.Flags().BoolVar(&f.tls, "tls", false, "Serve over HTTPS with a generated self-signed certificate")
	cmd.Flags().StringVar(&f.pactDir, "pact-dir", "", "Directory to write the merged pact file to on shutdown (default: don't write)")
	cmd.Flags().BoolVar(&f.overwrite, "overwrite", false, "Overwrite rather than merge the pact file written to --pact-dir")
	cmd.Flags().StringVar(&f.mode, "mode", "consumer", "Generator mode: consumer or provider")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&f.logFormat, "log-format", "text", "Log format: text or json")
	return cmd
}

func runServe(cmd *cobra.Command, contractPath string, f serveFlags) error {
	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(f.logLevel),
		Format: logging.ParseFormat(f.logFormat),
		Output: cmd.ErrOrStderr(),
	})

	data, err := os.ReadFile(contractPath)
	if err != nil {
		return fmt.Errorf("read contract file: %w", err)
	}
	contract, err := pact.UnmarshalContract(data)
	if err != nil {
		return fmt.Errorf("parse contract file: %w", err)
	}

	mode := generate.ModeConsumer
	if f.mode == "provider" {
		mode = generate.ModeProvider
	}

	registry := mockserver.NewRegistry()
	instID, baseURL, err := registry.Start(contract, mockserver.Config{
		TLS:  f.tls,
		CORS: mockserver.DefaultCORSConfig(),
		Mode: mode,
		Log:  log,
	})
	if err != nil {
		return fmt.Errorf("start mock server: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "mock server for %s -> %s listening on %s\n", contract.Consumer, contract.Provider, baseURL)
	log.Info("mock server started", "consumer", contract.Consumer, "provider", contract.Provider, "url", baseURL)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received")
	return shutdownAndReport(cmd, registry, instID, f, log)
}

func shutdownAndReport(cmd *cobra.Command, registry *mockserver.Registry, instID string, f serveFlags, log interface {
	Info(string, ...any)
	Warn(string, ...any)
}) error {
	allMatched, _ := registry.AllMatched(instID)
	mismatches, _ := registry.Mismatches(instID)

	if f.pactDir != "" {
		if err := registry.WritePact(instID, f.pactDir, f.overwrite); err != nil {
			log.Warn("failed to write pact file", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	registry.Shutdown(ctx, instID)

	if !allMatched || len(mismatches) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%d mismatched request(s); not every interaction was matched: %v\n",
			len(mismatches), !allMatched)
		return fmt.Errorf("mock server verification failed")
	}
	fmt.Fprintln(cmd.OutOrStdout(), "every interaction was matched")
	return nil
}
