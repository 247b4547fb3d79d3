package main

import (
	"fmt"
	"os"
	"path/filepath"

	"pyilc/src/ast"
	"pyilc/src/codegen"
	"pyilc/src/lexer"
	"pyilc/src/parser"
	"pyilc/src/util"
)

// run drives the pipeline — read source, lex, parse, generate, emit —
// grounded on the teacher's main.go run(), collapsed to the single
// synchronous path spec §5 mandates (no thread pool, no writer
// goroutine).
func run(opt util.Options) error {
	src, err := util.ReadSource(opt.Src)
	if err != nil {
		return fmt.Errorf("could not read source code: %w", err)
	}

	cfg := lexer.DefaultConfig()
	cfg.TabWidth = opt.TabWidth
	toks, lexErr := lexer.Lex(src, cfg)
	if lexErr != nil {
		return fmt.Errorf("lex error: %s", lexErr)
	}

	if opt.TokenStream {
		for _, t := range toks {
			fmt.Println(t.String())
		}
		if opt.Verbose {
			fmt.Println("--- recovered source ---")
			fmt.Println(lexer.Render(toks))
		}
		return nil
	}

	moduleName := filepath.Base(opt.Src)
	mod, parseErr := parser.Parse(toks, moduleName)
	if parseErr != nil {
		return fmt.Errorf("parse error: %s", parseErr)
	}

	if opt.Verbose {
		fmt.Printf("parsed module %q with %d top-level statements\n", mod.Name, len(mod.Stmts))
	}

	return generate(mod, opt)
}

// generate owns the Generator's lifetime so Dispose always runs before
// run returns, win or lose.
func generate(mod *ast.Module, opt util.Options) error {
	g := codegen.New(mod.Name)
	defer g.Dispose()

	m, genErr := g.Generate(mod)
	if genErr != nil {
		return fmt.Errorf("codegen error: %s", genErr)
	}

	if err := codegen.SetTargetTriple(m, opt.Triple); err != nil {
		return fmt.Errorf("could not set target triple: %w", err)
	}
	if err := codegen.Verify(m); err != nil {
		return fmt.Errorf("module verification failed: %w", err)
	}

	w, err := util.NewWriter(opt.Out)
	if err != nil {
		return fmt.Errorf("could not open output %q: %w", opt.Out, err)
	}
	defer w.Close()
	if err := w.WriteString(codegen.String(m)); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	return nil
}

func main() {
	opt, err := util.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "command line argument error: %s\n", err)
		os.Exit(1)
	}

	if err := run(opt); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
