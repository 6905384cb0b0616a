package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"bisub/internal/textutil"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// resolveFormat picks the output format. Without an explicit flag, terminals
// get a table and pipes get JSON.
func resolveFormat(flag string, out io.Writer) (string, error) {
	switch value := strings.ToLower(strings.TrimSpace(flag)); value {
	case "":
		if isTerminal(out) {
			return formatTable, nil
		}
		return formatJSON, nil
	case formatTable, formatJSON:
		return value, nil
	default:
		return "", fmt.Errorf("--format: unsupported value %q (want table or json)", flag)
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// orDash renders absent values as a dash in tables.
func orDash(value string) string {
	return textutil.Ternary(strings.TrimSpace(value) == "", "-", value)
}
