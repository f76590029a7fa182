package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/dshills/codeintel/internal/accessor"
	"github.com/dshills/codeintel/internal/logging"
)

func newWatchCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-tokenize a file whenever it changes",
		Long: `Watch FILE and print its length and token count after every write.

The file's content is replaced in place, so the same accessor serves every
revision. The command runs until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd.OutOrStdout(), s, args[0])
		},
	}

	return cmd
}

func runWatch(ctx context.Context, out io.Writer, s *session, path string) error {
	src, err := s.open(ctx, path)
	if err != nil {
		return err
	}
	defer src.close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Editors often replace files by rename, so watch the directory.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	st := newStyles(isColorEnabled(s.flags.color, out))
	revision := 0
	report := func() error {
		length, tokens, err := summarize(src.acc)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s revision %d: %d bytes, %d tokens\n",
			st.Header.Render(path+":"), revision, length, tokens)
		return nil
	}
	if err := report(); err != nil {
		return err
	}

	logger := logging.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Name != abs || !(ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create)) {
				continue
			}
			data, err := os.ReadFile(abs)
			if err != nil {
				logger.Warn("reload failed", logging.FieldPath, path, logging.FieldError, err)
				continue
			}
			if err := src.reload(string(data)); err != nil {
				return err
			}
			revision++
			if err := report(); err != nil {
				return err
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", logging.FieldPath, path, logging.FieldError, err)
		}
	}
}

// summarize returns the accessor's length and token count.
func summarize(acc accessor.Accessor) (int, int, error) {
	length, err := acc.Length()
	if err != nil {
		return 0, 0, err
	}
	seq, err := acc.Tokens()
	if err != nil {
		return 0, 0, err
	}
	count := 0
	for range seq {
		count++
	}
	return length, count, nil
}
