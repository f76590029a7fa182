package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dshills/codeintel/internal/accessor"
	"github.com/dshills/codeintel/internal/accessor/cache"
	"github.com/dshills/codeintel/internal/lexer"
	"github.com/dshills/codeintel/internal/logging"
)

type walkFlags struct {
	forward bool
	steps   int
	fetch   int
	ignore  []string
}

func newWalkCommand(s *session) *cobra.Command {
	var flags walkFlags

	cmd := &cobra.Command{
		Use:   "walk FILE POS",
		Short: "Walk style runs from a position through an accessor cache",
		Long: `Walk backward (or forward with --forward) from POS one style run at a
time, the way completion code scans the text before the caret.

Each step prints the run's start position and text. Styles named with
--ignore are treated as part of the neighboring run.

POS is a byte offset or LINE:COL, both zero-based.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWalk(cmd, s, &flags, args[0], args[1])
		},
	}

	cmd.Flags().BoolVar(&flags.forward, "forward", false, "walk toward the end of the file")
	cmd.Flags().IntVar(&flags.steps, "steps", 3, "number of runs to print")
	cmd.Flags().IntVar(&flags.fetch, "fetch", 0, "cache fetch size (default from config)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "style names to skip over, e.g. default,comment")

	return cmd
}

func parseStyles(names []string) ([]accessor.Style, error) {
	styles := make([]accessor.Style, 0, len(names))
	for _, name := range names {
		style, ok := lexer.ParseStyle(name)
		if !ok {
			return nil, fmt.Errorf("unknown style %q", name)
		}
		styles = append(styles, style)
	}
	return styles, nil
}

func runWalk(cmd *cobra.Command, s *session, flags *walkFlags, path, posArg string) error {
	ignore, err := parseStyles(flags.ignore)
	if err != nil {
		return err
	}
	src, err := s.open(cmd.Context(), path)
	if err != nil {
		return err
	}
	defer src.close()

	pos, err := parsePosition(src.acc, posArg)
	if err != nil {
		return err
	}
	opts := append(s.cfg.Cache.Options(), cache.WithLogger(logging.FromContext(cmd.Context())))
	if flags.fetch > 0 {
		opts = append(opts, cache.WithFetchSize(flags.fetch))
	}
	c := cache.New(src.acc, pos, opts...)
	// Walks from the end of the file start with nothing to fetch.
	if err := c.ResetToPosition(pos); err != nil && !errors.Is(err, cache.ErrOutOfData) {
		return err
	}

	out := cmd.OutOrStdout()
	st := newStyles(isColorEnabled(s.flags.color, out))
	skip := cache.Ignoring(ignore...)

	for step := range flags.steps {
		var at int
		var text string
		if flags.forward {
			at, text, err = c.TextForward(skip)
		} else {
			at, text, err = c.TextBack(skip)
		}
		if err != nil {
			return err
		}
		name := ""
		if cur, ok := c.Current(); ok {
			name = st.StyleName(cur.Style, 10)
		}
		fmt.Fprintf(out, "%s %s %s %s\n",
			st.Dim.Render(fmt.Sprintf("#%d", step+1)),
			st.Pos.Render(fmt.Sprintf("%6d", at)),
			name,
			st.Text.Render(strconv.Quote(text)))

		var ok bool
		if flags.forward {
			_, ok, err = c.Next(skip)
		} else {
			_, ok, err = c.Prev(skip)
		}
		if errors.Is(err, cache.ErrOutOfData) || (err == nil && !ok) {
			break
		}
		if err != nil {
			return err
		}
	}

	first, last := c.Window()
	fmt.Fprintln(out, st.Dim.Render(fmt.Sprintf("window [%d, %d) fetch size %d", first, last, c.FetchSize())))
	return nil
}
