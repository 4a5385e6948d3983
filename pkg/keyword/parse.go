package keyword

import "strings"

// SplitDebugArgs tokenizes a single debug-invocation text argument.
// Text starting with "[" or "|" is treated as pipe-delimited cell
// syntax ("[ a | b | c ]", "| a | b") and yields the trimmed cell
// tokens; anything else is split on whitespace.
func SplitDebugArgs(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if strings.HasPrefix(text, "[") || strings.HasPrefix(text, "|") {
		text = strings.Trim(text, "[|]")
		cells := strings.Split(text, "|")
		out := make([]string, 0, len(cells))
		for _, cell := range cells {
			out = append(out, strings.TrimSpace(cell))
		}
		return out
	}
	return strings.Fields(text)
}

// SplitCellArgs splits a multi-line text block into one trimmed token per
// line, for the cell invocation path.
func SplitCellArgs(text string) []string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, strings.TrimSpace(line))
	}
	return out
}
