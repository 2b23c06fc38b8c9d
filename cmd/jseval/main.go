package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/wippyai/jseval/config"
	"github.com/wippyai/jseval/engine"
	"github.com/wippyai/jseval/runtime"
)

func main() {
	var (
		expr        = flag.String("e", "", "Script to evaluate")
		file        = flag.String("f", "", "Script file to evaluate")
		callName    = flag.String("call", "", "Global function to invoke after evaluating")
		heap        = flag.Bool("heap", false, "Print a heap snapshot at the end")
		asJSON      = flag.Bool("json", false, "Print results as JSON")
		backend     = flag.String("backend", "", "Engine backend (overrides config)")
		configPath  = flag.String("config", os.Getenv(config.EnvFile), "Config file (YAML)")
		schema      = flag.Bool("schema", false, "Print the config JSON schema and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		args        argList
	)
	flag.Var(&args, "arg", "Argument for -call, repeatable: s:text sym:name n:1.5 i:42 b:true o:{json}")
	flag.Parse()

	if *schema {
		data, err := config.Schema()
		if err != nil {
			fail(err)
		}
		fmt.Println(string(data))
		return
	}

	if *expr == "" && *file == "" && *callName == "" && !*heap && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: jseval -e <script> | -f <file.js> [-call name -arg s:value ...] [-heap] [-json]")
		fmt.Fprintln(os.Stderr, "       jseval -i  (interactive mode)")
		fmt.Fprintln(os.Stderr, "       jseval -schema")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(err)
	}
	if *backend != "" {
		cfg.Backend = *backend
	}

	ctx := context.Background()
	rt, inst, err := start(ctx, cfg)
	if err != nil {
		fail(err)
	}
	defer rt.Close(ctx)

	if *interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fail(fmt.Errorf("interactive mode needs a terminal"))
		}
		if err := runInteractive(inst, cfg.Backend); err != nil {
			fail(err)
		}
		return
	}

	out := newPrinter(os.Stdout, *asJSON)
	ok, err := run(ctx, inst, out, job{
		expr: *expr,
		file: *file,
		call: *callName,
		args: args,
		heap: *heap,
	})
	if err != nil {
		fail(err)
	}
	if !ok {
		os.Exit(2)
	}
}

func start(ctx context.Context, cfg *config.Config) (*runtime.Runtime, *runtime.Instance, error) {
	log, err := cfg.Logger()
	if err != nil {
		return nil, nil, err
	}
	engine.SetLogger(log)

	rt, err := runtime.New(ctx, runtime.WithConfig(cfg), runtime.WithLogger(log))
	if err != nil {
		return nil, nil, fmt.Errorf("create runtime: %w", err)
	}
	inst, err := rt.NewInstance(ctx)
	if err != nil {
		rt.Close(ctx)
		return nil, nil, fmt.Errorf("create instance: %w", err)
	}
	return rt, inst, nil
}

type job struct {
	expr string
	file string
	call string
	args argList
	heap bool
}

// run executes the job steps in order and reports whether every script
// step succeeded.
func run(ctx context.Context, inst *runtime.Instance, out *printer, j job) (bool, error) {
	ok := true

	if j.file != "" {
		src, err := os.ReadFile(j.file)
		if err != nil {
			return false, fmt.Errorf("read file: %w", err)
		}
		o, err := inst.Evaluate(ctx, string(src))
		if err != nil {
			return false, err
		}
		ok = out.outcome(o) && ok
	}

	if j.expr != "" {
		o, err := inst.Evaluate(ctx, j.expr)
		if err != nil {
			return false, err
		}
		ok = out.outcome(o) && ok
	}

	if j.call != "" {
		o, err := inst.Invoke(ctx, j.call, j.args.values())
		if err != nil {
			return false, fmt.Errorf("call %s: %w", j.call, err)
		}
		ok = out.outcome(o) && ok
	}

	if j.heap {
		h, err := inst.HeapSnapshot(ctx)
		if err != nil {
			return false, err
		}
		out.heap(h)
	}

	return ok, nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
