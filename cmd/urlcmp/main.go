// Command urlcmp parses URLs and reports which of their facets match.
//
//	urlcmp [--facet name]... [--format text|json|yaml] [--log-level lvl] [--dev-log] URL URL...
//
// Flag defaults can be set with URLCMP_FORMAT and URLCMP_LOG_LEVEL, either in the
// environment or in a .env file in the working directory.
//
// The exit status is 0 when every reported facet matches, 1 when any does not,
// and 2 on a usage or parse error.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/urlkit/urlobject/comparator"
	"github.com/urlkit/urlobject/internal/errorutil"
	"github.com/urlkit/urlobject/internal/log"
)

const (
	exitMatch    = 0
	exitMismatch = 1
	exitError    = 2
)

const errMismatch errorutil.Error = "facet mismatch"

func main() {
	_ = godotenv.Load(".env") // optional URLCMP_* defaults
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr, os.Getenv))
}

func execute(args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	cmd := rootCmd(stdout, stderr, getenv)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	err := cmd.Execute()
	switch {
	case err == nil:
		return exitMatch
	case errors.Is(err, errMismatch):
		return exitMismatch
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
}

type options struct {
	facets   []string
	format   string
	logLevel string
	devLog   bool
}

func rootCmd(stdout, stderr io.Writer, getenv func(string) string) *cobra.Command {
	opts := options{
		format:   envOr(getenv, "URLCMP_FORMAT", "text"),
		logLevel: envOr(getenv, "URLCMP_LOG_LEVEL", "warn"),
	}

	cmd := &cobra.Command{
		Use:   "urlcmp [flags] URL URL...",
		Short: "Compare URLs facet by facet",
		Long: `urlcmp parses every URL argument and reports, for each facet
(scheme, user, pass, userinfo, host, port, authority, path, query,
parameters, fragment and the whole URL), whether all URLs agree.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, args)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().StringArrayVarP(&opts.facets, "facet", "f", nil,
		"Facet to compare, repeatable (default all facets)")
	cmd.Flags().StringVarP(&opts.format, "format", "o", opts.format,
		"Output format (text, json, yaml) [$URLCMP_FORMAT]")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", opts.logLevel,
		"Log level (debug, info, warn, error) [$URLCMP_LOG_LEVEL]")
	cmd.Flags().BoolVar(&opts.devLog, "dev-log", false, "Use the developer log handler")

	return cmd
}

func envOr(getenv func(string) string, key, def string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return def
}

type report struct {
	URLs   []string                 `json:"urls" yaml:"urls"`
	Facets []comparator.FacetResult `json:"facets" yaml:"facets"`
	Match  bool                     `json:"match" yaml:"match"`
}

func run(stdout, stderr io.Writer, opts options, args []string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	logger := log.New(stderr, level, opts.devLog)

	facets := make([]comparator.Facet, 0, len(opts.facets))
	for _, s := range opts.facets {
		f, err := comparator.ParseFacet(s)
		if err != nil {
			return fmt.Errorf("parse facet: %w", err)
		}
		facets = append(facets, f)
	}

	items := make([]any, len(args))
	for i, a := range args {
		items[i] = a
	}
	cmpr, err := comparator.CompareWithOptions(&comparator.Options{Logger: logger}, items...)
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	rep := report{Facets: cmpr.Report(facets...), Match: true}
	for i, u := range cmpr.URLs() {
		logger.Debug("URL parsed", slog.Int("index", i), slog.String("url", u.String()), slog.Any("params", u.Parameters()))
		rep.URLs = append(rep.URLs, u.String())
	}
	for _, r := range rep.Facets {
		rep.Match = rep.Match && r.Match
	}

	if err := render(stdout, opts.format, rep); err != nil {
		return err
	}
	if !rep.Match {
		return errMismatch
	}
	return nil
}

func render(w io.Writer, format string, rep report) error {
	switch strings.ToLower(format) {
	case "text":
		for _, r := range rep.Facets {
			state := "match"
			if !r.Match {
				state = "mismatch"
			}
			if _, err := fmt.Fprintf(w, "%-10s %s\n", r.Facet, state); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		return enc.Close()
	default:
		return errorutil.NewInvalidArgumentError("unknown output format %q", format)
	}
}
