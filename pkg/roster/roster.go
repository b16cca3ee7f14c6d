package roster

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Entry represents one non-blank roster line.
type Entry struct {
	// LineNumber is the 1-based position of the line in the roster file.
	// Blank lines consume a line number too, so numbering is stable when
	// blank lines are edited in or out.
	LineNumber int

	// Usernames holds the distinct account names on the line in
	// first-seen order. Never empty.
	Usernames []string
}

// Solo reports whether the entry provisions an individual repository.
func (e Entry) Solo() bool {
	return len(e.Usernames) == 1
}

// MalformedRosterError indicates a roster line that yields no usernames
// after trimming.
type MalformedRosterError struct {
	Line int
}

// Error implements the error interface
func (e *MalformedRosterError) Error() string {
	return fmt.Sprintf("roster line %d contains no usernames", e.Line)
}

// Parse reads a comma-separated roster into entries in file order.
//
// Each non-blank line becomes one Entry: the line is split on commas,
// fields are whitespace-trimmed, empty fields dropped, and duplicate
// usernames removed preserving first-seen order. Blank lines are skipped
// but still counted for line numbering. A non-blank line left with zero
// usernames fails the whole parse with a MalformedRosterError.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		seen := make(map[string]bool)
		var usernames []string
		for _, field := range strings.Split(line, ",") {
			username := strings.TrimSpace(field)
			if username == "" || seen[username] {
				continue
			}
			seen[username] = true
			usernames = append(usernames, username)
		}

		if len(usernames) == 0 {
			return nil, &MalformedRosterError{Line: lineNumber}
		}

		entries = append(entries, Entry{
			LineNumber: lineNumber,
			Usernames:  usernames,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}

	return entries, nil
}
