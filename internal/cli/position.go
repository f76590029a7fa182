package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/codeintel/internal/accessor"
)

// parsePosition resolves arg to a buffer position. arg is either a byte
// offset or LINE:COL with both parts zero-based.
func parsePosition(acc accessor.Accessor, arg string) (int, error) {
	lineStr, colStr, ok := strings.Cut(arg, ":")
	if !ok {
		pos, err := strconv.Atoi(arg)
		if err != nil {
			return 0, fmt.Errorf("invalid position %q: %w", arg, err)
		}
		return pos, nil
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil {
		return 0, fmt.Errorf("invalid line %q: %w", lineStr, err)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil {
		return 0, fmt.Errorf("invalid column %q: %w", colStr, err)
	}
	return acc.PosFromLineAndCol(line, col)
}
