package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

type tokensFlags struct {
	summary bool
}

func newTokensCommand(s *session) *cobra.Command {
	var flags tokensFlags

	cmd := &cobra.Command{
		Use:   "tokens FILE",
		Short: "Print the token table of a file",
		Long: `Print every token of FILE with its span, style and text.

Spans are byte positions; the end position is inclusive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, s, &flags, args[0])
		},
	}

	cmd.Flags().BoolVar(&flags.summary, "summary", false, "print only the token count")

	return cmd
}

func runTokens(cmd *cobra.Command, s *session, flags *tokensFlags, path string) error {
	src, err := s.open(cmd.Context(), path)
	if err != nil {
		return err
	}
	defer src.close()

	seq, err := src.acc.Tokens()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	st := newStyles(isColorEnabled(s.flags.color, out))

	count := 0
	for tok := range seq {
		count++
		if flags.summary {
			continue
		}
		fmt.Fprintf(out, "%s %s %s\n",
			st.Pos.Render(fmt.Sprintf("%6d-%-6d", tok.Start, tok.End)),
			st.StyleName(tok.Style, 10),
			st.Text.Render(strconv.Quote(tok.Text)))
	}
	fmt.Fprintf(out, "%s %d tokens, language %s\n", st.Header.Render(path+":"), count, src.language)
	return nil
}
