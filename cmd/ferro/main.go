// Command ferro is the ferro interpreter CLI.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/ferrolang/ferro/internal/config"
	"github.com/ferrolang/ferro/internal/profile"
	"github.com/ferrolang/ferro/pkg/ferro"
)

func main() {
	var (
		evalStr     = flag.String("e", "", "Evaluate ferro string")
		configPath  = flag.String("c", "", "Config file path (default ./ferro.yaml if present)")
		dbPath      = flag.String("db", "", "SQLite history database path")
		depth       = flag.Int("depth", 0, "Max call depth (overrides config)")
		noStdlib    = flag.Bool("no-stdlib", false, "Disable standard library prelude")
		profileMode = flag.String("profile", "", "Profiler: stack, types or perf")
	)

	flag.Parse()

	var cfg config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags override config
	if *dbPath == "" {
		*dbPath = cfg.HistoryDB
	}
	if *depth == 0 {
		*depth = cfg.MaxCallDepth
	}
	if cfg.NoStdlib {
		*noStdlib = true
	}

	opts := []ferro.Option{}
	if *dbPath != "" {
		opts = append(opts, ferro.WithSQLiteStore(*dbPath))
	}
	if *depth > 0 {
		opts = append(opts, ferro.WithMaxCallDepth(*depth))
	}
	if *noStdlib {
		opts = append(opts, ferro.WithNoStdlib())
	}

	// Attach the requested profiler and arrange for its report
	report := func() {}
	switch *profileMode {
	case "":
	case "perf":
		p := profile.NewPerf()
		opts = append(opts, ferro.WithPerfProfiler(p))
		report = func() { fmt.Fprint(os.Stderr, p.Report()) }
	case "stack":
		p := profile.NewStack()
		opts = append(opts, ferro.WithStackProfiler(p))
		report = func() { fmt.Fprint(os.Stderr, p.Report()) }
	case "types":
		p := profile.NewTypes()
		opts = append(opts, ferro.WithTypeProfiler(p))
		report = func() { fmt.Fprint(os.Stderr, p.Report()) }
	default:
		fmt.Fprintf(os.Stderr, "Unknown profiler: %s (use stack, types or perf)\n", *profileMode)
		os.Exit(1)
	}

	runtime := ferro.New(opts...)
	defer runtime.Close()

	var result string

	switch {
	case *evalStr != "":
		result, err = runtime.Eval(*evalStr)

	case flag.NArg() > 0:
		result, err = runtime.EvalFile(flag.Arg(0))

	case !term.IsTerminal(int(os.Stdin.Fd())):
		// Piped input
		var input []byte
		input, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
		result, err = runtime.Eval(string(input))

	default:
		runREPL(runtime)
		report()
		return
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		report()
		os.Exit(1)
	}

	if result != "" {
		fmt.Println(result)
	}
	report()
}
