package app

import (
	"context"
	"fmt"
	"io"

	"github.com/kk-code-lab/advfind/internal/debuglog"
	"github.com/kk-code-lab/advfind/internal/dom"
	"github.com/kk-code-lab/advfind/internal/search"
)

// PrintOptions configures a one-shot, non-interactive search.
type PrintOptions struct {
	Search     search.Config
	MaxMatches int
	// Select makes the Nth match (1-based) the active one.
	Select int
	Logger *debuglog.Logger
}

// Print highlights doc, writes the resulting markup to out and the position
// indicator to status. The returned error is non-nil for invalid patterns
// and unusable documents; zero matches is not an error.
func Print(ctx context.Context, doc *dom.Document, opts PrintOptions, out, status io.Writer) (search.Status, error) {
	session := search.NewSession(doc,
		search.WithMaxMatches(opts.MaxMatches),
		search.WithLogger(opts.Logger),
	)
	st := session.OnConfigChanged(ctx, opts.Search)
	if st.InvalidPattern || st.Unavailable {
		fmt.Fprintln(status, st.String())
		return st, st.Err
	}
	if opts.Select > 1 && st.Total > 0 {
		for i := 1; i < opts.Select; i++ {
			st = session.OnNavigate(1)
		}
	}
	if err := doc.Render(out); err != nil {
		return st, fmt.Errorf("render: %w", err)
	}
	fmt.Fprintln(status, st.String())
	return st, nil
}
