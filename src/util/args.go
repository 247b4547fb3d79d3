package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
)

// appVersion is reported by -v/--version.
const appVersion = "pyilc 1.0"

// Options controls compiler behaviour, adapted from the teacher's
// util.Options and trimmed to this spec's flag surface (SPEC_FULL.md
// §1.2): this compiler always targets LLVM IR text, so the teacher's
// -arch/-os/-vendor/-t (thread count) flags collapse into a single
// -triple override and -tab/-o/-ts/-vb survive largely unchanged.
type Options struct {
	Src         string
	Out         string
	TabWidth    int
	Triple      string // Empty means use the host's default target triple.
	Verbose     bool
	TokenStream bool
}

// ParseArgs parses os.Args[1:] into an Options value, adapted from the
// teacher's util.ParseArgs hand-rolled scanner (no third-party flags
// library appears anywhere in the example pack).
func ParseArgs(args []string) (Options, error) {
	opt := Options{TabWidth: 4}
	var positional []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-h", "--h", "-help", "--help":
			printHelp()
			os.Exit(0)
		case "-v", "--v", "-version", "--version":
			fmt.Println(appVersion)
			os.Exit(0)
		case "-ts":
			opt.TokenStream = true
		case "-vb":
			opt.Verbose = true
		case "-o":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i])
			}
			opt.Out = args[i+1]
			i++
		case "-tab":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i])
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil || n < 1 {
				return opt, fmt.Errorf("expected positive integer tab width, got %q", args[i+1])
			}
			opt.TabWidth = n
			i++
		case "-triple":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i])
			}
			opt.Triple = args[i+1]
			i++
		default:
			if strings.HasPrefix(args[i], "-") {
				return opt, fmt.Errorf("unexpected flag: %s", args[i])
			}
			positional = append(positional, args[i])
		}
	}
	if len(positional) > 0 {
		opt.Src = positional[0]
	}
	if len(positional) > 1 {
		opt.Out = positional[1]
	}
	if opt.Out == "" {
		opt.Out = "output.ll"
	}
	return opt, nil
}

func printHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, 0)
	_, _ = fmt.Fprintln(w, "usage: compile <input.py> [output.ll]")
	_, _ = fmt.Fprintln(w, "-h, -help\tPrints this help message and exits.")
	_, _ = fmt.Fprintln(w, "-o\tPath to the output .ll file. Defaults to output.ll.")
	_, _ = fmt.Fprintln(w, "-tab\tTab width used when computing indentation. Defaults to 4.")
	_, _ = fmt.Fprintln(w, "-triple\tLLVM target triple override. Defaults to the host triple.")
	_, _ = fmt.Fprintln(w, "-ts\tDump the token stream and exit.")
	_, _ = fmt.Fprintln(w, "-v, -version\tPrints the application version and exits.")
	_, _ = fmt.Fprintln(w, "-vb\tVerbose mode: print the parsed module's statement count; with -ts, also print the recovered source.")
	_ = w.Flush()
}
