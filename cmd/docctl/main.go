package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docportal/internal/client"
	"docportal/internal/logging"
	"docportal/internal/models"
	"docportal/internal/services"
)

const defaultServer = "http://localhost:8000"

// errShown marks a failure whose message was already printed.
var errShown = errors.New("operation failed")

type options struct {
	server    string
	timeout   time.Duration
	maxUpload int64
	verbose   bool

	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errShown) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	server := os.Getenv("DOCPORTAL_BACKEND_URL")
	if server == "" {
		server = defaultServer
	}

	root := &cobra.Command{
		Use:   "docctl",
		Short: "Talk to the document management backend",
		Long: `docctl sends the same four requests as the web front end:
register, login, upload and search. It prints the backend's message,
or the generic failure text when the request does not succeed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !opts.verbose {
				opts.logger = zap.NewNop()
				return nil
			}
			logger, err := logging.New("development", true)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.server, "server", "s", server, "backend base URL (env DOCPORTAL_BACKEND_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "request timeout, 0 disables")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")

	uploadCmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a PDF document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd.Context(), opts, cmd.OutOrStdout(), args[0])
		},
	}
	uploadCmd.Flags().Int64Var(&opts.maxUpload, "max-bytes", 10<<20, "reject files larger than this before sending")

	root.AddCommand(
		&cobra.Command{
			Use:   "register USERNAME PASSWORD",
			Short: "Create an account",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCredentials(cmd.Context(), opts, cmd.OutOrStdout(), client.OpRegister, args)
			},
		},
		&cobra.Command{
			Use:   "login USERNAME PASSWORD",
			Short: "Log in with an existing account",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCredentials(cmd.Context(), opts, cmd.OutOrStdout(), client.OpLogin, args)
			},
		},
		uploadCmd,
		&cobra.Command{
			Use:   "search QUERY...",
			Short: "Search uploaded documents",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSearch(cmd.Context(), opts, cmd.OutOrStdout(), strings.Join(args, " "))
			},
		},
	)

	return root
}

func (o *options) client() (*client.Client, error) {
	return client.New(o.server, client.WithTimeout(o.timeout), client.WithLogger(o.logger))
}

func runCredentials(ctx context.Context, opts *options, out io.Writer, op client.Operation, args []string) error {
	c, err := opts.client()
	if err != nil {
		return err
	}

	creds := models.Credentials{Username: args[0], Password: args[1]}
	var resp *models.MessageResult
	if op == client.OpRegister {
		resp, err = c.Register(ctx, creds)
	} else {
		resp, err = c.Login(ctx, creds)
	}
	return report(out, op, resp.Text(), err, opts.logger)
}

func runUpload(ctx context.Context, opts *options, out io.Writer, path string) error {
	c, err := opts.client()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	file, err := services.NewDocumentInspector(opts.maxUpload).Inspect(filepath.Base(path), data)
	if err != nil {
		fmt.Fprintln(out, err.Error())
		return errShown
	}

	resp, err := c.Upload(ctx, file)
	return report(out, client.OpUpload, resp.Text(), err, opts.logger)
}

func runSearch(ctx context.Context, opts *options, out io.Writer, query string) error {
	c, err := opts.client()
	if err != nil {
		return err
	}

	resp, err := c.Search(ctx, query)
	if err == nil && resp.Text() == "" {
		fmt.Fprintln(out, "No results found")
		return nil
	}
	return report(out, client.OpSearch, resp.Text(), err, opts.logger)
}

// report prints the backend text, or the operation's fallback when the call
// failed or the expected field was absent.
func report(out io.Writer, op client.Operation, text string, err error, logger *zap.Logger) error {
	if err != nil {
		logger.Debug("request failed", zap.String("op", string(op)), zap.Error(err))
		fmt.Fprintln(out, op.Fallback())
		return errShown
	}
	if text == "" {
		fmt.Fprintln(out, op.Fallback())
		return errShown
	}
	fmt.Fprintln(out, text)
	return nil
}
