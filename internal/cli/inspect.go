package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

type inspectFlags struct {
	match string
}

func newInspectCommand(s *session) *cobra.Command {
	var flags inspectFlags

	cmd := &cobra.Command{
		Use:   "inspect FILE POS",
		Short: "Describe one position of a file",
		Long: `Print the character, style, line and column at POS together with the
contiguous run of that style around it.

POS is a byte offset or LINE:COL, both zero-based.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, s, &flags, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&flags.match, "match", "", "also report whether this text occurs at POS")

	return cmd
}

func runInspect(cmd *cobra.Command, s *session, flags *inspectFlags, path, posArg string) error {
	src, err := s.open(cmd.Context(), path)
	if err != nil {
		return err
	}
	defer src.close()

	acc := src.acc
	pos, err := parsePosition(acc, posArg)
	if err != nil {
		return err
	}
	ch, err := acc.CharAt(pos)
	if err != nil {
		return err
	}
	style, err := acc.StyleAt(pos)
	if err != nil {
		return err
	}
	line, col, err := acc.LineAndColAt(pos)
	if err != nil {
		return err
	}
	lineStart, err := acc.LineStartPosFromPos(pos)
	if err != nil {
		return err
	}
	start, end, err := acc.ContiguousStyleRange(pos)
	if err != nil {
		return err
	}
	run, err := acc.TextRange(start, end)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	st := newStyles(isColorEnabled(s.flags.color, out))
	label := func(name string) string { return st.Dim.Render(fmt.Sprintf("%-10s", name)) }

	fmt.Fprintf(out, "%s %d\n", label("position"), pos)
	fmt.Fprintf(out, "%s %s\n", label("char"), strconv.QuoteRune(rune(ch)))
	fmt.Fprintf(out, "%s %s\n", label("style"), st.StyleName(style, 0))
	fmt.Fprintf(out, "%s %d:%d (line starts at %d)\n", label("line"), line, col, lineStart)
	fmt.Fprintf(out, "%s [%d, %d) %s\n", label("run"), start, end, st.Text.Render(strconv.Quote(run)))
	if flags.match != "" {
		ok, err := acc.MatchAt(pos, flags.match)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s %t\n", label("match"), strconv.Quote(flags.match), ok)
	}
	return nil
}
