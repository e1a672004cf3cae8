package runner

import "strings"

// Compare reports whether got matches want once trailing whitespace on each
// line and trailing blank lines are ignored. Everything else must match
// exactly, so "3" and "3.0" differ.
func Compare(got, want string) bool {
	return Normalize(got) == Normalize(want)
}

func Normalize(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
