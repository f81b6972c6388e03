package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"product-catalog/internal/apiclient"
	"product-catalog/internal/config"
	"product-catalog/internal/logger"
	"product-catalog/internal/viewmodel"
)

type app struct {
	cfg config.Client
	vm  *viewmodel.ViewModel
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var (
		apiURL   string
		timeout  time.Duration
		logLevel string
	)

	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Manage the product catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			cfg, err := config.LoadClient()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("api-url") {
				cfg.APIURL = strings.TrimRight(apiURL, "/")
			}
			if cmd.Flags().Changed("timeout") {
				cfg.APITimeout = timeout
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			logger.Init(cfg.LogLevel)

			a.cfg = cfg
			a.vm = viewmodel.New(apiclient.New(cfg.APIURL, apiclient.WithTimeout(cfg.APITimeout)))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "catalog API base URL (env API_URL)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-request timeout, 0 for none (env API_TIMEOUT)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (env LOG_LEVEL)")

	root.AddCommand(
		newListCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newCategoriesCmd(a),
	)
	return root
}

// execute runs the root command and prints the user-facing error, if any.
func execute(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}
	return err
}

// promptConfirm asks a y/N question on out and reads the answer from in.
func promptConfirm(in io.Reader, out io.Writer) viewmodel.ConfirmFunc {
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N]: ", prompt)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}
