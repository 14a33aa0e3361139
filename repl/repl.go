// Package repl provides a read/bind/print loop for JavaScript.
//
// It supports readline-style command editing,
// and interrupts through Control-C.
//
// The REPL reads lines until the input parses, or until a blank line
// if it does not, then binds the input as one compilation unit and
// prints its scope tree.
package repl // import "github.com/jsbind/jsbind/repl"

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/chzyer/readline"

	"github.com/jsbind/jsbind/binder"
	"github.com/jsbind/jsbind/dump"
	"github.com/jsbind/jsbind/jsparse"
	"github.com/jsbind/jsbind/syntax"
)

var interrupted = make(chan os.Signal, 1)

// A Config holds the settings of a REPL session.
type Config struct {
	Options binder.Options
	Dialect jsparse.Dialect
	Out     io.Writer // defaults to os.Stdout
}

// REPL executes a read, bind, print loop.
//
// Each unit is parsed with a context.Context that is cancelled by a
// SIGINT (Control-C).
func REPL(cfg Config) {
	signal.Notify(interrupted, os.Interrupt)
	defer signal.Stop(interrupted)

	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}

	rl, err := readline.New(">>> ")
	if err != nil {
		PrintError(err)
		return
	}
	defer rl.Close()
	for {
		if err := rep(rl, cfg); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(err)
				continue
			}
			break
		}
	}
	fmt.Println()
}

// rep reads, binds, and prints one unit.
//
// It returns an error (possibly readline.ErrInterrupt)
// only if readline failed. Parse and binding errors are printed.
func rep(rl *readline.Instance, cfg Config) error {
	// Each unit gets its own context,
	// which is cancelled by a SIGINT.
	//
	// Note: during Readline calls, Control-C causes Readline to return
	// ErrInterrupt but does not generate a SIGINT.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-interrupted:
			cancel()
		case <-ctx.Done():
		}
	}()

	rl.SetPrompt(">>> ")
	next := func() (string, error) {
		line, err := rl.Readline()
		rl.SetPrompt("... ")
		return line, err
	}

	f, err := readUnit(ctx, next, cfg.Dialect)
	if err != nil {
		if err == io.EOF || err == readline.ErrInterrupt {
			return err
		}
		PrintError(err)
		return nil
	}
	if f == nil {
		return nil // blank line
	}
	return bindAndPrint(cfg, f)
}

// readUnit reads lines until they parse as a unit. After a failed
// parse, a blank line ends the input and the parse error is returned.
// It returns a nil File for a blank first line.
func readUnit(ctx context.Context, next func() (string, error), d jsparse.Dialect) (*syntax.File, error) {
	var buf strings.Builder
	for {
		line, err := next()
		if err != nil {
			return nil, err
		}
		blank := strings.TrimSpace(line) == ""
		if blank && buf.Len() == 0 {
			return nil, nil
		}
		buf.WriteString(line)
		buf.WriteByte('\n')

		f, err := jsparse.Parse(ctx, "<stdin>", []byte(buf.String()), d)
		if err == nil {
			return f, nil
		}
		if blank || ctx.Err() != nil {
			return nil, err
		}
	}
}

func bindAndPrint(cfg Config, f *syntax.File) error {
	opts := cfg.Options
	if cfg.Dialect.IsTypeScript() {
		opts.TypeScript = true
	}
	res, err := binder.File(f, opts)
	if err != nil {
		PrintError(err)
		return nil
	}
	if err := dump.Text(cfg.Out, res); err != nil {
		PrintError(err)
	}
	return nil
}

// PrintError prints the error to stderr.
func PrintError(err error) {
	fmt.Fprintln(os.Stderr, err)
}
