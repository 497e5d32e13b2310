package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"openref/cli/internal/browser"
	"openref/cli/internal/config"
	"openref/cli/internal/dispatch"
	"openref/cli/internal/erruser"
	"openref/cli/internal/gitremote"
	"openref/cli/internal/gosyntax"
	"openref/cli/internal/handler"
	"openref/cli/internal/picker"
	"openref/cli/internal/textsource"
	"openref/cli/internal/trace"
	"openref/cli/internal/version"
)

// stdout is the writer for resolved URLs. Tests may replace it to capture output.
var stdout io.Writer = os.Stdout

// stdinSource provides the selection stream for the "-" argument. Tests may replace it.
var stdinSource io.Reader = os.Stdin

// openAction launches the resolved URL. Tests may replace it to avoid
// spawning a real opener.
var openAction = browser.Open

func main() {
	os.Exit(Run())
}

// Run is the entry point for the CLI. It is exported for testing so that
// main.go can meet per-file coverage requirements.
func Run() int {
	return runCLI(os.Args[1:])
}

func runCLI(args []string) int {
	rootCmd := &cobra.Command{
		Use:   "openref [text]",
		Short: "Open the URL referenced by the text under the cursor",
		Long: `openref extracts a navigable URL from a fragment of text and opens it.

The text comes from a literal argument, from "-" (standard input), or from a
cursor position given with --file and --line. Handlers scoped to the file's
type or name extract commit hashes, issue references, package names, CVE
identifiers, import paths, and raw URLs; unmatched text falls back to a web
search.`,
		Version: version.String(),
		Args:    cobra.MaximumNArgs(1),
		RunE:    runOpen,
	}
	addInputFlags(rootCmd)
	rootCmd.Flags().Bool("print", false, "Print the URL instead of opening it")
	rootCmd.Flags().Bool("no-prompt", false, "On ambiguity, do nothing instead of prompting")
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newHandlersCmd())
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if u := errors.Unwrap(err); u != nil {
			fmt.Fprintf(os.Stderr, "Details: %v\n", u)
		}
		return 1
	}
	return 0
}

// addInputFlags registers the flags shared by the root command and its
// subcommands: where the text comes from and which config layers to override.
func addInputFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("file", "", "File the cursor is in")
	cmd.PersistentFlags().Int("line", 0, "1-based cursor line (requires --file)")
	cmd.PersistentFlags().Int("col", 0, "1-based cursor column")
	cmd.PersistentFlags().Bool("word", false, "Use the word under the cursor instead of the whole line")
	cmd.PersistentFlags().String("ft", "", "File type override (e.g. go, markdown); inferred from the extension by default")
	cmd.PersistentFlags().String("search-engine", "", "Search engine key or URL template (overrides config)")
	cmd.PersistentFlags().StringSlice("remotes", nil, "Preferred git remote names in order (overrides config)")
	cmd.PersistentFlags().Bool("push-remote", false, "Use the push URL when resolving git remotes")
	cmd.PersistentFlags().String("config", "", "Global config file (default: user config dir)")
	cmd.PersistentFlags().Bool("trace", false, "Print handler steps to stderr")
}

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [text]",
		Short: "Resolve the text to a URL and print it without opening",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runResolve,
	}
	cmd.Flags().Bool("all", false, "Print every candidate as 'handler  url'")
	return cmd
}

func newHandlersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "handlers",
		Short: "List the configured handlers and their scopes",
		Args:  cobra.NoArgs,
		RunE:  runHandlers,
	}
}

// invocation is everything one dispatch needs, assembled from flags, config
// layers, and the text source.
type invocation struct {
	cfg *config.Config
	reg *handler.Registry
	req handler.Request
	tr  *trace.Tracer
}

func runOpen(cmd *cobra.Command, args []string) error {
	inv, err := prepare(cmd, args, true)
	if err != nil {
		return err
	}
	noPrompt, _ := cmd.Flags().GetBool("no-prompt")
	var chooser dispatch.Chooser
	if !noPrompt {
		chooser = &picker.Picker{}
	}
	url, ok := dispatch.Resolve(inv.reg, inv.req, chooser, inv.tr)
	if !ok {
		// No match and cancelled choice are silent no-ops.
		return nil
	}
	if printOnly, _ := cmd.Flags().GetBool("print"); printOnly {
		fmt.Fprintln(stdout, url)
		return nil
	}
	return openAction(url, inv.cfg.OpenCommand)
}

func runResolve(cmd *cobra.Command, args []string) error {
	inv, err := prepare(cmd, args, true)
	if err != nil {
		return err
	}
	out := dispatch.Run(inv.reg, inv.req, inv.tr)
	if out.Kind == dispatch.NoMatch {
		return nil
	}
	if all, _ := cmd.Flags().GetBool("all"); all {
		for _, c := range out.Candidates {
			fmt.Fprintf(stdout, "%-12s %s\n", c.Handler, c.URL)
		}
		return nil
	}
	if out.Kind == dispatch.SingleMatch {
		fmt.Fprintln(stdout, out.URL)
		return nil
	}
	// Ambiguous and non-interactive: the first candidate is the
	// registration-order winner.
	fmt.Fprintln(stdout, out.Candidates[0].URL)
	return nil
}

func runHandlers(cmd *cobra.Command, args []string) error {
	inv, err := prepare(cmd, args, false)
	if err != nil {
		return err
	}
	eligible := make(map[string]bool)
	for _, h := range inv.reg.Eligible(inv.req.Ctx) {
		eligible[h.Name] = true
	}
	for _, name := range inv.reg.Names() {
		h, _ := inv.reg.Get(name)
		status := "enabled"
		if h.Disabled {
			status = "disabled"
		}
		mark := " "
		if eligible[name] {
			mark = "*"
		}
		fmt.Fprintf(stdout, "%s %-12s %-9s %s\n", mark, name, status, describeScope(h))
	}
	return nil
}

func describeScope(h *handler.Handler) string {
	var parts []string
	if len(h.FileTypes) > 0 {
		parts = append(parts, "ft="+strings.Join(h.FileTypes, ","))
	}
	if h.FileNamePattern != nil {
		parts = append(parts, "filename="+h.FileNamePattern.String())
	}
	if len(parts) == 0 {
		return "global"
	}
	return strings.Join(parts, " ")
}

// prepare loads config, builds the registry, and assembles the request.
// needText controls whether a missing text source is an error; the handlers
// subcommand only needs the file context.
func prepare(cmd *cobra.Command, args []string, needText bool) (*invocation, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, erruser.New("Could not determine current directory.", err)
	}
	// Outside a repository there is simply no repo config layer and no
	// remote-dependent handlers.
	repoRoot, err := gitremote.RepoRoot(cwd)
	if err != nil {
		repoRoot = ""
	}

	globalPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cmd.Context(), config.LoadOptions{
		RepoRoot:         repoRoot,
		GlobalConfigPath: globalPath,
		Overrides:        overridesFromFlags(cmd),
	})
	if err != nil {
		return nil, err
	}
	reg, err := cfg.BuildRegistry()
	if err != nil {
		return nil, err
	}

	var tr *trace.Tracer
	if on, _ := cmd.Flags().GetBool("trace"); on {
		tr = trace.New(os.Stderr)
	}

	ctx, err := fileContext(cmd, cwd)
	if err != nil {
		return nil, err
	}
	mode, text, err := gatherText(cmd, args, ctx)
	if err != nil {
		return nil, err
	}
	if needText && text == "" {
		return nil, erruser.New("Nothing to resolve. Pass text, \"-\" for stdin, or --file with --line.", nil)
	}

	return &invocation{
		cfg: cfg,
		reg: reg,
		req: handler.Request{
			Mode: mode,
			Text: text,
			Ctx:  ctx,
			Deps: handler.Deps{Remote: gitremote.Resolver{}, Syntax: gosyntax.Source{}},
			Cfg:  cfg.Settings(),
		},
		tr: tr,
	}, nil
}

func overridesFromFlags(cmd *cobra.Command) *config.Overrides {
	o := &config.Overrides{}
	if engine, _ := cmd.Flags().GetString("search-engine"); engine != "" {
		o.SearchEngine = &engine
	}
	if remotes, _ := cmd.Flags().GetStringSlice("remotes"); len(remotes) > 0 {
		o.GitRemotes = &remotes
	}
	if cmd.Flags().Changed("push-remote") {
		push, _ := cmd.Flags().GetBool("push-remote")
		o.GitRemotePush = &push
	}
	return o
}

// fileContext builds the file context from --file, --line, --col, and --ft.
func fileContext(cmd *cobra.Command, cwd string) (handler.Context, error) {
	file, _ := cmd.Flags().GetString("file")
	line, _ := cmd.Flags().GetInt("line")
	col, _ := cmd.Flags().GetInt("col")
	ft, _ := cmd.Flags().GetString("ft")

	ctx := handler.Context{Line: line, Col: col, Dir: cwd}
	if file == "" {
		ctx.FileType = ft
		return ctx, nil
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return handler.Context{}, erruser.New("Invalid --file path.", err)
	}
	ctx.FilePath = abs
	ctx.FileName = filepath.Base(abs)
	ctx.Dir = filepath.Dir(abs)
	if ft == "" {
		ft = inferFileType(ctx.FileName)
	}
	ctx.FileType = ft
	return ctx, nil
}

// gatherText picks the primary text: a literal argument, "-" for a selection
// on stdin, or the line (or word, with --word) at the cursor position.
func gatherText(cmd *cobra.Command, args []string, ctx handler.Context) (handler.Mode, string, error) {
	if len(args) > 0 {
		if args[0] == "-" {
			text, err := textsource.Selection(stdinSource)
			return handler.ModeSelection, text, err
		}
		return handler.ModeCursor, args[0], nil
	}
	if ctx.FilePath != "" && ctx.Line > 0 {
		word, _ := cmd.Flags().GetBool("word")
		if word {
			text, err := textsource.WordAt(ctx.FilePath, ctx.Line, ctx.Col)
			return handler.ModeCursor, text, err
		}
		text, err := textsource.LineAt(ctx.FilePath, ctx.Line)
		return handler.ModeCursor, text, err
	}
	return handler.ModeCursor, "", nil
}

// fileTypes maps file extensions to the file-type names handler scopes use.
var fileTypes = map[string]string{
	".c":        "c",
	".css":      "css",
	".go":       "go",
	".html":     "html",
	".js":       "javascript",
	".json":     "json",
	".lua":      "lua",
	".markdown": "markdown",
	".md":       "markdown",
	".py":       "python",
	".rb":       "ruby",
	".rs":       "rust",
	".sh":       "sh",
	".toml":     "toml",
	".ts":       "typescript",
	".txt":      "text",
	".vim":      "vim",
	".yaml":     "yaml",
	".yml":      "yaml",
}

func inferFileType(name string) string {
	return fileTypes[strings.ToLower(filepath.Ext(name))]
}
