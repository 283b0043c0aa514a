package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/type-ruby/trb/internal/cache"
	"github.com/type-ruby/trb/internal/codegen"
	"github.com/type-ruby/trb/internal/config"
	"github.com/type-ruby/trb/internal/diagnostics"
	"github.com/type-ruby/trb/internal/optimizer"
	"github.com/type-ruby/trb/internal/parser"
	"github.com/type-ruby/trb/internal/pipeline"
	"github.com/type-ruby/trb/internal/scanner"
	"github.com/type-ruby/trb/internal/types"
)

const sourceExt = config.SourceFileExt

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "build":
		os.Exit(runBuild(os.Args[2:]))
	case "check":
		os.Exit(runCheck(os.Args[2:]))
	case "help", "-help", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: trbc <command> [options] [paths]

Commands:
  build    compile .trb sources to Ruby (plus optional .rbs/.trbd files)
  check    type-check sources without writing output

Paths name .trb files or directories to compile; with none given the
whole source directory is compiled.

Options (build and check):
  --src DIR     source directory (default from trb.yaml, else "src")
  --strict      treat warnings as errors
  --verbose     print per-file progress

Options (build only):
  --out DIR     output directory (default from trb.yaml, else "build")
  --rbs         also emit .rbs signature files
  --decls       also emit .trbd declaration files
  --no-cache    bypass the build cache
`)
}

type buildOptions struct {
	cfg     *config.Config
	paths   []string
	noCache bool
	verbose bool
}

func parseFlags(name string, args []string) (*buildOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	srcDir := fs.String("src", "", "source directory")
	outDir := fs.String("out", "", "output directory")
	emitRBS := fs.Bool("rbs", false, "emit .rbs signature files")
	emitDecls := fs.Bool("decls", false, "emit .trbd declaration files")
	strict := fs.Bool("strict", false, "treat warnings as errors")
	noCache := fs.Bool("no-cache", false, "bypass the build cache")
	verbose := fs.Bool("verbose", false, "print per-file progress")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.LoadDir(".")
	if err != nil {
		return nil, err
	}
	if *srcDir != "" {
		cfg.SrcDir = *srcDir
	}
	if *outDir != "" {
		cfg.OutDir = *outDir
	}
	if *emitRBS {
		cfg.EmitRBS = true
	}
	if *emitDecls {
		cfg.EmitDecls = true
	}
	if *strict {
		cfg.Strict = true
	}
	return &buildOptions{cfg: cfg, paths: fs.Args(), noCache: *noCache, verbose: *verbose}, nil
}

func runBuild(args []string) int {
	opts, err := parseFlags("build", args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return compile(opts, true)
}

func runCheck(args []string) int {
	opts, err := parseFlags("check", args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return compile(opts, false)
}

func compile(opts *buildOptions, emit bool) int {
	sources, err := collectSources(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(sources) == 0 {
		fmt.Fprintf(os.Stderr, "no %s files under %s\n", sourceExt, opts.cfg.SrcDir)
		return 1
	}

	var store *cache.Cache
	if emit && !opts.noCache && opts.cfg.CachePath != "" {
		store, err = cache.Open(opts.cfg.CachePath)
		if err != nil {
			// A broken cache never fails the build.
			fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	printer := newDiagnosticPrinter()
	failed := false
	for _, src := range sources {
		if !compileFile(src, opts, emit, store, printer) {
			failed = true
		}
	}
	if failed {
		return 1
	}
	return 0
}

func compileFile(src string, opts *buildOptions, emit bool, store *cache.Cache, printer *diagnosticPrinter) bool {
	data, err := os.ReadFile(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	source := string(data)

	var key string
	if store != nil {
		key = cacheKey(source, opts.cfg)
		if entry, hit, err := store.Get(key); err == nil && hit {
			// Warnings are part of the build result; a hit replays them.
			fmt.Fprint(os.Stderr, entry.Warnings)
			if opts.verbose {
				fmt.Printf("%s: cached\n", src)
			}
			return writeArtifacts(src, opts, entry)
		}
	}

	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = src
	ctx.Strict = opts.cfg.Strict
	ctx.WarnUnknownTypes = opts.cfg.WarnUnknownTypes

	p := pipeline.New(
		&scanner.ScannerProcessor{},
		&parser.ParserProcessor{},
		&types.CheckerProcessor{},
		&optimizer.OptimizerProcessor{},
	)
	ctx = p.Run(ctx)

	plain := &diagnosticPrinter{}
	var warnings strings.Builder
	for _, d := range ctx.Diagnostics {
		printer.print(d)
		if d.Severity == diagnostics.SeverityWarning {
			warnings.WriteString(plain.format(d))
		}
	}
	if ctx.HasErrors() {
		return false
	}
	if opts.verbose {
		fmt.Printf("%s: ok (run %s, %d optimizer iterations)\n", src, ctx.RunID, ctx.OptimizeIterations)
	}
	if !emit {
		return true
	}

	entry := &cache.Entry{
		RunID:    ctx.RunID,
		Ruby:     codegen.GenerateRuby(ctx.Program),
		RBS:      codegen.GenerateRBS(ctx.Program),
		Decls:    codegen.GenerateDecls(ctx.Program),
		Warnings: warnings.String(),
	}
	if store != nil {
		if err := store.Put(key, entry); err != nil {
			fmt.Fprintf(os.Stderr, "warning: cache write failed: %v\n", err)
		}
	}
	return writeArtifacts(src, opts, entry)
}

// cacheKey fingerprints every option that changes a build's outputs or its
// diagnostics.
func cacheKey(source string, cfg *config.Config) string {
	return cache.Key(source,
		fmt.Sprintf("strict=%t", cfg.Strict),
		fmt.Sprintf("warnUnknown=%t", cfg.WarnUnknownTypes),
		fmt.Sprintf("rbs=%t", cfg.EmitRBS),
		fmt.Sprintf("decls=%t", cfg.EmitDecls))
}

// artifactBase maps a source path to its output path stem, mirroring the
// layout under the source directory. A source outside that directory lands
// at the top of the output directory.
func artifactBase(srcDir, outDir, src string) string {
	rel, err := filepath.Rel(srcDir, src)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(src)
	}
	return filepath.Join(outDir, strings.TrimSuffix(rel, sourceExt))
}

// writeArtifacts writes the outputs for one source file.
func writeArtifacts(src string, opts *buildOptions, entry *cache.Entry) bool {
	outBase := artifactBase(opts.cfg.SrcDir, opts.cfg.OutDir, src)
	if err := os.MkdirAll(filepath.Dir(outBase), 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}

	outputs := map[string]string{outBase + config.RubyFileExt: entry.Ruby}
	if opts.cfg.EmitRBS {
		outputs[outBase+config.RBSFileExt] = entry.RBS
	}
	if opts.cfg.EmitDecls {
		outputs[outBase+config.DeclsFileExt] = entry.Decls
	}
	for path, content := range outputs {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return false
		}
	}
	return true
}

// collectSources resolves the positional arguments to source files. A
// directory argument is walked; with no arguments the configured source
// directory is walked.
func collectSources(opts *buildOptions) ([]string, error) {
	if len(opts.paths) == 0 {
		return findSources(opts.cfg.SrcDir)
	}
	var sources []string
	for _, p := range opts.paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			found, err := findSources(p)
			if err != nil {
				return nil, err
			}
			sources = append(sources, found...)
			continue
		}
		if !strings.HasSuffix(p, sourceExt) {
			return nil, fmt.Errorf("%s is not a %s file", p, sourceExt)
		}
		sources = append(sources, p)
	}
	return sources, nil
}

func findSources(dir string) ([]string, error) {
	var sources []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, sourceExt) {
			sources = append(sources, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return sources, nil
}

type diagnosticPrinter struct {
	color bool
}

func newDiagnosticPrinter() *diagnosticPrinter {
	return &diagnosticPrinter{
		color: isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
	}
}

func (p *diagnosticPrinter) print(d *diagnostics.Diagnostic) {
	fmt.Fprint(os.Stderr, p.format(d))
}

// format renders one diagnostic, trailing newline included. A zero-value
// printer renders without color.
func (p *diagnosticPrinter) format(d *diagnostics.Diagnostic) string {
	severity := "error"
	colorCode := "\033[31m"
	if d.Severity == diagnostics.SeverityWarning {
		severity = "warning"
		colorCode = "\033[33m"
	}
	if p.color {
		severity = colorCode + severity + "\033[0m"
	}

	loc := d.File
	if d.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Column)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: [%s] %s\n", loc, severity, d.Code, d.Message)
	if d.Expected != "" || d.Actual != "" {
		fmt.Fprintf(&b, "  expected %s, got %s\n", d.Expected, d.Actual)
	}
	if d.Suggestion != "" {
		fmt.Fprintf(&b, "  hint: %s\n", d.Suggestion)
	}
	return b.String()
}
