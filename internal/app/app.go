package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pouriyajamshidi/flagshape"
	"github.com/pouriyajamshidi/flagshape/internal/ctxlog"
	"github.com/pouriyajamshidi/flagshape/printers"
)

// Run executes the flagshape application and returns an exit code
func Run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	config, err := ProcessUserInput(args)
	if err != nil {
		return handleError(ctx, err, nil, stdout, stderr)
	}

	ctx = ctxlog.WithLogger(ctx, ctxlog.New(stderr, config.Debug))

	if config.Canonical {
		if err := printCanonical(ctx, stdout, config.Paths); err != nil {
			return handleError(ctx, err, nil, stdout, stderr)
		}
		return 0
	}

	config.PrinterConfig.Writer = stdout
	printer, err := flagshape.NewPrinter(config.PrinterConfig)
	if err != nil {
		return handleError(ctx, err, nil, stdout, stderr)
	}

	renderErr := flagshape.Render(ctx, printer, config.Paths...)
	doneErr := printer.Done()

	if err := errors.Join(renderErr, doneErr); err != nil {
		return handleError(ctx, err, printer, stdout, stderr)
	}

	return 0
}

// printCanonical writes every flag definition of every command in its
// canonical form, one command per block.
func printCanonical(ctx context.Context, w io.Writer, paths []string) error {
	shapes, err := flagshape.Canonicalize(ctx, paths...)
	if err != nil {
		return err
	}

	for i, cs := range shapes {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s:\n", cs.Command.Name)
		for _, o := range cs.Shape.Options {
			fmt.Fprintf(w, "  %s\n", o.Definition)
		}
	}

	return nil
}

// checkForUpdates is replaced in tests.
var checkForUpdates = CheckForUpdates

func handleError(ctx context.Context, err error, printer flagshape.Printer, stdout, stderr io.Writer) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, ErrUsageRequested) {
		if err != ErrUsageRequested {
			printError(err, printer, stderr)
		}
		PrintUsage(stdout)
		return 1
	}

	if errors.Is(err, ErrVersionRequested) {
		PrintVersion(stdout)
		return 0
	}

	if errors.Is(err, ErrUpdateCheckRequested) {
		msg, checkErr := checkForUpdates(ctx)
		if checkErr != nil {
			printError(checkErr, printer, stderr)
			return 1
		}
		fmt.Fprintln(stdout, msg)
		return 0
	}

	printError(err, printer, stderr)
	return 1
}

func printError(err error, printer flagshape.Printer, stderr io.Writer) {
	if printer != nil {
		printer.PrintError("%v", err)
		return
	}

	printers.FprintError(stderr, err)
}
