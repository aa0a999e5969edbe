package change

import (
	"fmt"
	"strings"
)

// Report renders one MakeChange call and its outcome as a single line of text.
func Report(target int64, denominations, solution []Denomination, err error) string {
	if err != nil {
		return fmt.Sprintf("cannot give back %d with %s: %v", target, formatList(denominations), err)
	}
	return fmt.Sprintf("to give back %d with %s use %s (%d items)",
		target, formatList(denominations), formatList(solution), Count(solution))
}

func formatList(denominations []Denomination) string {
	parts := make([]string, len(denominations))
	for i, d := range denominations {
		parts[i] = d.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
