package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/jessevdk/go-flags"
	"github.com/viant/afs"

	apppkg "github.com/kk-code-lab/advfind/internal/app"
	"github.com/kk-code-lab/advfind/internal/config"
	"github.com/kk-code-lab/advfind/internal/debuglog"
	"github.com/kk-code-lab/advfind/internal/dom"
	"github.com/kk-code-lab/advfind/internal/search"
)

const (
	exitOK    = 0
	exitLoad  = 1
	exitUsage = 2
)

// Options are the command-line flags.
type Options struct {
	Pattern       string `short:"p" long:"pattern" description:"Initial search pattern"`
	CaseSensitive bool   `short:"c" long:"case-sensitive" description:"Match case exactly"`
	WholeWord     bool   `short:"w" long:"whole-word" description:"Only match whole words"`
	Regex         bool   `short:"r" long:"regex" description:"Treat the pattern as a regular expression"`
	Print         bool   `long:"print" description:"Print the highlighted document to stdout instead of opening the viewer"`
	Select        int    `short:"n" long:"select" description:"Make the Nth match active (with --print)" default:"1"`
	Charset       string `long:"charset" description:"Override the document character set"`
	Config        string `short:"f" long:"config" description:"Configuration file"`

	Args struct {
		Document string `positional-arg-name:"DOCUMENT" description:"HTML or text file to search"`
	} `positional-args:"yes" required:"yes"`
}

func (o *Options) searchConfig() search.Config {
	return search.Config{
		Pattern:       o.Pattern,
		CaseSensitive: o.CaseSensitive,
		WholeWord:     o.WholeWord,
		UseRegex:      o.Regex,
	}
}

// newScreen opens the terminal; tests swap in a simulation screen.
var newScreen = func() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return screen, nil
}

func main() {
	// Set UTF-8 as fallback encoding so non-ASCII text displays correctly
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts := &Options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "advfind"
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, err)
			return exitOK
		}
		fmt.Fprintf(stderr, "advfind: %v\n", err)
		return exitUsage
	}
	if opts.Select < 1 {
		fmt.Fprintln(stderr, "advfind: --select must be at least 1")
		return exitUsage
	}

	ctx := context.Background()
	fs := afs.New()

	cfgPath := opts.Config
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	settings, err := config.Load(ctx, fs, cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "advfind: %v\n", err)
		return exitLoad
	}
	logger := debuglog.FromEnv(settings.LogFile)
	logger.Printf("config=%q max_matches=%d debounce=%s", cfgPath, settings.MaxMatches, settings.Debounce)

	doc, err := dom.Load(ctx, fs, opts.Args.Document, settings.DocumentOptions(opts.Charset))
	if err != nil {
		fmt.Fprintf(stderr, "advfind: %v\n", err)
		return exitLoad
	}

	if opts.Print {
		_, err := apppkg.Print(ctx, doc, apppkg.PrintOptions{
			Search:     opts.searchConfig(),
			MaxMatches: settings.MaxMatches,
			Select:     opts.Select,
			Logger:     logger,
		}, stdout, stderr)
		if errors.Is(err, search.ErrInvalidPattern) {
			return exitUsage
		}
		if err != nil {
			fmt.Fprintf(stderr, "advfind: %v\n", err)
			return exitLoad
		}
		return exitOK
	}

	screen, err := newScreen()
	if err != nil {
		fmt.Fprintf(stderr, "advfind: %v\n", err)
		return exitLoad
	}
	app, err := apppkg.NewApplication(apppkg.Options{
		Document: doc,
		Settings: settings,
		Initial:  opts.searchConfig(),
		Logger:   logger,
		Screen:   screen,
	})
	if err != nil {
		screen.Fini()
		fmt.Fprintf(stderr, "Error initializing application: %v\n", err)
		return exitLoad
	}
	defer func() {
		_ = app.Close()
	}()

	app.Run()
	return exitOK
}
