package cli

import (
	"errors"
	"fmt"
	"strconv"
)

var errUsage = errors.New("usage")

func usage(format string) error {
	return fmt.Errorf("%w: %s", errUsage, format)
}

func parseID(args []string, i int, format string) (int64, error) {
	if len(args) <= i {
		return 0, usage(format)
	}
	id, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil || id <= 0 {
		return 0, usage(format)
	}
	return id, nil
}

// parseQty reads an optional quantity at args[i], defaulting to def.
func parseQty(args []string, i int, def int, format string) (int, error) {
	if len(args) <= i {
		return def, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, usage(format)
	}
	return n, nil
}
