package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
	apppkg "github.com/kk-code-lab/mdview/internal/app"
	"github.com/kk-code-lab/mdview/internal/config"
	"github.com/kk-code-lab/mdview/internal/fs"
	"github.com/kk-code-lab/mdview/internal/images"
	"github.com/kk-code-lab/mdview/internal/markdown"
	"github.com/kk-code-lab/mdview/internal/termout"
	"github.com/kk-code-lab/mdview/internal/theme"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/version"
)

const defaultWidth = 80

func init() {
	version.SetDefaultModule("github.com/kk-code-lab/mdview")
}

// cliFlags holds flag values; only flags the user set override the config.
type cliFlags struct {
	configPath   string
	themeName    string
	width        int
	osc8         string
	softBreak    string
	baseURL      string
	imageBaseURL string
	printMode    bool
	plain        bool
	listThemes   bool
	noImages     bool
	noWatch      bool
	showVersion  bool
}

func main() {
	// Set UTF-8 as fallback encoding for maximum compatibility
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var usage usageError
		if errors.As(err, &usage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

func newFlagSet(f *cliFlags, stderr io.Writer) *pflag.FlagSet {
	flags := pflag.NewFlagSet("mdview", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&f.configPath, "config", "c", "", "Config file (default $XDG_CONFIG_HOME/mdview/config.yaml)")
	flags.StringVarP(&f.themeName, "theme", "t", "", "Theme name")
	flags.IntVarP(&f.width, "width", "w", 0, "Maximum text width (0 uses the terminal width)")
	flags.StringVarP(&f.osc8, "osc8", "8", "", "OSC8 hyperlinks: auto|on|off")
	flags.StringVar(&f.softBreak, "soft-break", "", "Soft line breaks: space|line-break")
	flags.StringVar(&f.baseURL, "base-url", "", "Resolve relative links against this URL")
	flags.StringVar(&f.imageBaseURL, "image-base-url", "", "Resolve relative images against this URL")
	flags.BoolVarP(&f.printMode, "print", "p", false, "Write the rendered document to stdout instead of opening the viewer")
	flags.BoolVarP(&f.plain, "plain", "b", false, "Print without ANSI escape sequences")
	flags.BoolVar(&f.listThemes, "list-themes", false, "List available themes")
	flags.BoolVar(&f.noImages, "no-images", false, "Do not load images")
	flags.BoolVar(&f.noWatch, "no-watch", false, "Do not reload the document when the file changes")
	flags.BoolVar(&f.showVersion, "version", false, "Print version and exit")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: mdview [flags] [file|url|-]\n")
		fmt.Fprintln(stderr, "\nIf no input is provided, Markdown is read from stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}
	return flags
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var f cliFlags
	flags := newFlagSet(&f, stderr)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return err
		}
		return usageError{err}
	}

	if f.showVersion {
		fmt.Fprintln(stdout, version.Module(), version.Current())
		return nil
	}
	if f.listThemes {
		for _, name := range theme.Names() {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}

	if flags.NArg() > 1 {
		return usageError{fmt.Errorf("expected at most one input, got %d", flags.NArg())}
	}
	src, err := fs.ParseSource(flags.Arg(0))
	if err != nil {
		return usageError{err}
	}

	cfg, err := loadConfig(flags, f)
	if err != nil {
		return err
	}

	if f.printMode || f.plain || !isTerminal(stdout) {
		return printDocument(src, cfg, f.plain, stdin, stdout, stderr)
	}
	return view(src, cfg, stdin)
}

// loadConfig reads the config file, then applies the flags that were set.
func loadConfig(flags *pflag.FlagSet, f cliFlags) (config.Config, error) {
	path := f.configPath
	if path == "" {
		path = config.DefaultPath(os.Getenv)
	}
	cfg, err := config.Load(path, flags.Changed("config"))
	if err != nil {
		return config.Config{}, err
	}

	if flags.Changed("theme") {
		cfg.Theme = f.themeName
	}
	if flags.Changed("width") {
		cfg.Width = f.width
	}
	if flags.Changed("osc8") {
		cfg.OSC8 = f.osc8
	}
	if flags.Changed("soft-break") {
		cfg.SoftBreak = f.softBreak
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = f.baseURL
	}
	if flags.Changed("image-base-url") {
		cfg.ImageBaseURL = f.imageBaseURL
	}
	if f.noImages {
		cfg.NoImages = true
	}
	if f.noWatch {
		cfg.Watch = false
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, usageError{err}
	}
	return cfg, nil
}

func printDocument(src fs.Source, cfg config.Config, plain bool, stdin io.Reader, stdout, stderr io.Writer) error {
	logger, closer, err := cfg.Log.NewLogger(stderr)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	client := images.NewCachedClient(cacheDir(cfg), 0)
	ctx, cancel := withTimeout(context.Background(), cfg.ReadTimeout)
	defer cancel()

	content, err := fs.Reader{Client: client, Stdin: stdin}.Read(ctx, src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src.Name(), err)
	}
	doc := markdown.Parse(content)

	var lookup images.Lookup
	if !cfg.NoImages && !plain {
		resolver := imageResolver(src, cfg, client)
		resolver.Logger = logger
		imgCtx, imgCancel := withTimeout(context.Background(), cfg.ImageTimeout)
		lookup, err = resolver.Resolve(imgCtx, doc.AllInlines())
		imgCancel()
		if err != nil {
			logger.Warn("some images could not be loaded", "error", err)
		}
	}

	hyperlinks := false
	if !plain {
		hyperlinks, err = termout.ResolveHyperlinks(cfg.OSC8, os.Getenv)
		if err != nil {
			return usageError{err}
		}
	}

	return termout.Write(stdout, doc, termout.Options{
		Width:      resolveWidth(cfg.Width, stdout),
		Theme:      cfg.ThemeValue(),
		Images:     lookup,
		BaseURL:    linkBase(src, cfg),
		SoftBreak:  cfg.SoftBreakMode(),
		Hyperlinks: hyperlinks,
		Plain:      plain,
	})
}

func view(src fs.Source, cfg config.Config, stdin io.Reader) error {
	logger, closer, err := cfg.Log.NewLogger(nil)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	hyperlinks, err := termout.ResolveHyperlinks(cfg.OSC8, os.Getenv)
	if err != nil {
		return usageError{err}
	}

	client := images.NewCachedClient(cacheDir(cfg), 0)
	opts := apppkg.Options{
		Source:       src,
		Theme:        cfg.ThemeValue(),
		LinkGradient: cfg.Gradient(),
		SoftBreak:    cfg.SoftBreakMode(),
		MaxWidth:     cfg.Width,
		ShowImages:   !cfg.NoImages,
		BaseURL:      cfg.LinkBase(),
		Hyperlinks:   hyperlinks,
		Watch:        cfg.Watch,
		Reader:       fs.Reader{Client: client, Stdin: stdin},
		ReadTimeout:  cfg.ReadTimeout,
		Logger:       logger,
	}
	if !cfg.NoImages {
		resolver := imageResolver(src, cfg, client)
		resolver.Logger = logger
		opts.Images = images.NewLoader(resolver, cfg.ImageTimeout)
	}

	app, err := apppkg.NewApplication(opts)
	if err != nil {
		return fmt.Errorf("initialize terminal: %w", err)
	}
	defer func() {
		_ = app.Close()
	}()

	app.Run()
	return nil
}

func imageResolver(src fs.Source, cfg config.Config, client *http.Client) images.Resolver {
	base := cfg.ImageBase()
	if base == nil {
		base = src.BaseURL()
	}
	return images.Resolver{
		Provider: images.DefaultProvider(client, src.Dir()),
		BaseURL:  base,
	}
}

func linkBase(src fs.Source, cfg config.Config) *url.URL {
	if base := cfg.LinkBase(); base != nil {
		return base
	}
	return src.BaseURL()
}

func cacheDir(cfg config.Config) string {
	if cfg.CacheDir != "" {
		return cfg.CacheDir
	}
	return config.DefaultCacheDir()
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// resolveWidth prefers the configured width, then the terminal, then
// $COLUMNS.
func resolveWidth(width int, out io.Writer) int {
	if width > 0 {
		return width
	}
	if f, ok := out.(*os.File); ok {
		fd := int(f.Fd())
		if term.IsTerminal(fd) {
			if w, _, err := term.GetSize(fd); err == nil && w > 0 {
				return w
			}
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return defaultWidth
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
