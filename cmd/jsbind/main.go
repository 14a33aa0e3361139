// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The jsbind command binds JavaScript and TypeScript files and reports
// their scopes, variables and module linkage.
package main // import "github.com/jsbind/jsbind/cmd/jsbind"

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jsbind/jsbind/binder"
	"github.com/jsbind/jsbind/build"
	"github.com/jsbind/jsbind/dump"
	"github.com/jsbind/jsbind/jsparse"
	"github.com/jsbind/jsbind/repl"
)

// flags
var (
	configFile string
	mode       string
	typescript bool
	concurrent bool
	jobs       int
	color      bool
	asJSON     bool
)

// errFailed reports that diagnostics were already printed.
var errFailed = errors.New("failed")

func main() {
	log.SetPrefix("jsbind: ")
	log.SetFlags(0)
	if err := rootCmd().Execute(); err != nil {
		if err != errFailed {
			pterm.Error.Println(err)
		}
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jsbind",
		Short:         "Bind JavaScript and TypeScript scopes and module linkage",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// glog reads its flags from the standard flag set.
			flag.CommandLine.Parse(nil)
			if !color || !term.IsTerminal(int(os.Stdout.Fd())) {
				pterm.DisableColor()
			}
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "project file (default: nearest "+build.ConfigFileName+")")
	pf.StringVar(&mode, "mode", "", "source kind: script, module or commonjs")
	pf.BoolVar(&typescript, "typescript", false, "bind with TypeScript rules")
	pf.BoolVar(&concurrent, "concurrent", false, `check "use concurrent" functions`)
	pf.IntVar(&jobs, "jobs", 0, "maximum number of files bound at once")
	pf.BoolVar(&color, "color", true, "color output on terminals")
	pf.AddGoFlagSet(flag.CommandLine)

	check := &cobra.Command{
		Use:   "check [files]",
		Short: "Bind files and report errors",
		RunE:  runCheck,
	}
	dumpCmd := &cobra.Command{
		Use:   "dump file",
		Short: "Print the scope tree and linkage record of a file",
		Args:  cobra.ExactArgs(1),
		RunE:  runDump,
	}
	dumpCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Start a read/bind/print loop",
		Args:  cobra.NoArgs,
		RunE:  runREPL,
	}
	root.AddCommand(check, dumpCmd, replCmd)
	return root
}

// loadConfig returns the project configuration with flags applied.
func loadConfig(cmd *cobra.Command) (*build.Config, error) {
	cfg := build.DefaultConfig()
	name := configFile
	if name == "" {
		name = build.FindConfig(".")
	}
	if name != "" {
		var err error
		if cfg, err = build.LoadConfig(name); err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("mode") {
		m, err := binder.ParseMode(mode)
		if err != nil {
			return nil, err
		}
		cfg.Options.Mode = m
	}
	if flags.Changed("typescript") {
		cfg.Options.TypeScript = typescript
	}
	if flags.Changed("concurrent") {
		cfg.Options.Concurrent = concurrent
	}
	if flags.Changed("jobs") {
		cfg.Jobs = jobs
	}
	return cfg, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	files := args
	if len(files) == 0 {
		if files, err = cfg.Files(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), stopSignals...)
	defer stop()

	start := time.Now()
	units, err := build.Run(ctx, cfg, files)
	var merr *multierror.Error
	if err != nil && !errors.As(err, &merr) {
		return err
	}
	for _, u := range units {
		if u.Err != nil {
			pterm.Error.Println(u.Err)
		}
	}
	printSummary(build.Summarize(units, time.Since(start)))
	if merr != nil {
		return errFailed
	}
	pterm.Success.Printfln("%d files bound", len(units))
	return nil
}

func printSummary(s build.Summary) {
	data := pterm.TableData{
		{"units", "failed", "source", "scopes", "bindings", "imports", "exports", "time"},
		{
			humanize.Comma(int64(s.Units)), fmt.Sprint(s.Failed), humanize.Bytes(s.Bytes),
			humanize.Comma(int64(s.Scopes)), humanize.Comma(int64(s.Bindings)),
			humanize.Comma(int64(s.Imports)), humanize.Comma(int64(s.Exports)),
			s.Elapsed.Round(time.Millisecond).String(),
		},
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		log.Print(err)
	}
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	filename := args[0]
	u, err := build.BindFile(context.Background(), filename, cfg.OptionsFor(filename))
	if err != nil {
		return err
	}
	if u.Err != nil {
		pterm.Error.Println(u.Err)
		return errFailed
	}
	if asJSON {
		data, err := dump.JSON(u.Result)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	pterm.Info.Printfln("%s: %s in %s", filename, humanize.Bytes(uint64(u.Size)), u.Elapsed)
	return dump.Text(os.Stdout, u.Result)
}

func runREPL(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts := cfg.Options
	if !cmd.Flags().Changed("mode") {
		opts.Mode = binder.Script
	}
	d := jsparse.JavaScript
	if opts.TypeScript {
		d = jsparse.TypeScript
	}
	fmt.Println("Welcome to jsbind")
	repl.REPL(repl.Config{Options: opts, Dialect: d})
	return nil
}
