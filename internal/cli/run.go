package cli

import (
	"errors"
	"fmt"

	"github.com/samvad-hq/http-methods/internal/app"
	"github.com/samvad-hq/http-methods/internal/output"
	"github.com/samvad-hq/http-methods/internal/params"
	"github.com/spf13/cobra"
)

type runFlags struct {
	server      string
	method      string
	headers     []string
	data        []string
	query       []string
	ignoreCerts bool
	timeout     int
	paramsFile  string
	check       bool
	output      string
	selectPath  string
	noColor     bool
}

func newRunCmd(deps Deps) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Send one request and report the normalized result",
		Long: `Send one request to the echo service and report the normalized result.

Examples:
  http-methods run
  http-methods run --method post -d name=ada -d admin=true
  http-methods run -q page=2 -H "x-trace=abc" --output json
  http-methods run --params invocation.yaml --check
  http-methods run --method get -q a=1 --select body.args.a`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvocation(cmd, deps, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.server, "server", "s", "", "Base URL of the echo service (default from DEFAULT_SERVER)")
	fl.StringVarP(&f.method, "method", "m", "", "HTTP method: GET, POST, PATCH, PUT, DELETE (default GET)")
	fl.StringArrayVarP(&f.headers, "header", "H", nil, "Request header as key=value (repeatable)")
	fl.StringArrayVarP(&f.data, "data", "d", nil, "Form field as key=value (repeatable)")
	fl.StringArrayVarP(&f.query, "query", "q", nil, "Query parameter as key=value (repeatable)")
	fl.BoolVarP(&f.ignoreCerts, "ignore-certs", "k", false, "Skip TLS certificate verification")
	fl.IntVar(&f.timeout, "timeout", 0, "Timeout in seconds (default from DEFAULT_TIMEOUT)")
	fl.StringVarP(&f.paramsFile, "params", "p", "", "YAML or JSON file with invocation parameters")
	fl.BoolVar(&f.check, "check", false, "Resolve and validate parameters without sending the request")
	fl.StringVarP(&f.output, "output", "o", deps.Config.OutputFormat, "Output format: console, json")
	fl.StringVar(&f.selectPath, "select", "", "Print only the value at this path of the result (e.g. body.form.key)")
	fl.BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	return cmd
}

func runInvocation(cmd *cobra.Command, deps Deps, f *runFlags) error {
	in, err := buildInvocation(cmd, f)
	if err != nil {
		return err
	}
	if f.selectPath != "" && in.CheckMode {
		return exitErr(app.ExitUsageError, errors.New("--select cannot be combined with check mode"))
	}

	renderer, err := output.New(f.output, f.noColor)
	if err != nil {
		return exitErr(app.ExitUsageError, err)
	}

	inv, err := deps.NewInvoker(cmd.Context())
	if err != nil {
		return exitErr(app.ExitConfigError, err)
	}
	defer inv.Close()

	rep, err := inv.Invoke(cmd.Context(), in)
	if err != nil {
		return exitErr(app.ExitConfigError, err)
	}

	if f.selectPath != "" {
		if rep.Result == nil {
			return exitErr(app.ExitCode(rep), errors.New("no result to select from"))
		}
		val, err := output.Select(*rep.Result, f.selectPath)
		if err != nil {
			return exitErr(app.ExitUsageError, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), val)
	} else if err := renderer.Render(cmd.OutOrStdout(), rep); err != nil {
		return exitErr(app.ExitRequestFailure, err)
	}

	if code := app.ExitCode(rep); code != app.ExitSuccess {
		return exitErr(code, nil)
	}
	return nil
}

// buildInvocation starts from the --params file, if any, and lets explicit flags override it.
func buildInvocation(cmd *cobra.Command, f *runFlags) (params.Invocation, error) {
	var in params.Invocation
	if f.paramsFile != "" {
		loaded, err := params.Load(f.paramsFile)
		if err != nil {
			return in, exitErr(app.ExitConfigError, err)
		}
		in = loaded
	}

	fl := cmd.Flags()
	if fl.Changed("server") {
		in.Server = f.server
	}
	if fl.Changed("method") {
		in.Method = f.method
	}
	if fl.Changed("ignore-certs") {
		v := f.ignoreCerts
		in.IgnoreCerts = &v
	}
	if fl.Changed("timeout") {
		v := f.timeout
		in.Timeout = &v
	}
	if f.check {
		in.CheckMode = true
	}

	headers, err := params.ParseHeaders(f.headers)
	if err != nil {
		return in, exitErr(app.ExitUsageError, err)
	}
	in.Headers = mergeStrings(in.Headers, headers)

	data, err := params.ParsePairs(f.data)
	if err != nil {
		return in, exitErr(app.ExitUsageError, err)
	}
	in.Data = mergeValues(in.Data, data)

	query, err := params.ParsePairs(f.query)
	if err != nil {
		return in, exitErr(app.ExitUsageError, err)
	}
	in.Query = mergeValues(in.Query, query)

	return in, nil
}

func mergeStrings(base, over map[string]string) map[string]string {
	if len(over) == 0 {
		return base
	}
	out := make(map[string]string, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

func mergeValues(base, over map[string]any) map[string]any {
	if len(over) == 0 {
		return base
	}
	out := make(map[string]any, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}
