// Package cli wires the http-methods commands onto cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/samvad-hq/http-methods/internal/app"
	"github.com/samvad-hq/http-methods/internal/config"
	"github.com/spf13/cobra"
)

// Deps carries what the commands need from main.
type Deps struct {
	Config     *config.Config
	NewInvoker func(ctx context.Context) (*app.Invoker, error)
	Version    string
	BuildTime  string
}

// ExitError carries the process exit code out of a command. Err may be nil when the
// command already reported its outcome on stdout.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

func exitErr(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// NewRootCmd builds the command tree.
func NewRootCmd(deps Deps) *cobra.Command {
	if deps.Config == nil {
		deps.Config = &config.Config{}
	}
	if deps.NewInvoker == nil {
		cfg := deps.Config
		deps.NewInvoker = func(ctx context.Context) (*app.Invoker, error) {
			return app.NewInvoker(ctx, cfg, nil)
		}
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}

	root := &cobra.Command{
		Use:   "http-methods",
		Short: "Exercise an HTTP echo service with one request per invocation.",
		Long: `http-methods sends a single GET, POST, PATCH, PUT or DELETE request to an
httpbin-style echo service and reports a normalized result: status, headers,
decoded body and a success/failure outcome (success means status 200).`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return exitErr(app.ExitUsageError, err)
	})

	root.AddCommand(newRunCmd(deps))
	root.AddCommand(newHistoryCmd(deps))
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newVersionCmd(deps))
	return root
}

// Execute runs root and maps its outcome onto an exit code. Errors are written to stderr.
func Execute(ctx context.Context, root *cobra.Command, stderr io.Writer) int {
	err := root.ExecuteContext(ctx)
	if err == nil {
		return app.ExitSuccess
	}

	var exit *ExitError
	if errors.As(err, &exit) {
		if exit.Err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exit.Err)
		}
		return exit.Code
	}
	// Errors that reach here come from cobra itself: unknown commands and argument checks.
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return app.ExitUsageError
}
