package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/cascade"
	"golang.org/x/term"
)

var stdin = bufio.NewReader(os.Stdin)

// readSecret prompts on stderr and reads without echo when stdin is a
// terminal. Piped input is read line by line.
func readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", internal.NewInternalError("failed to read password", err)
		}
		return string(b), nil
	}
	line, err := stdin.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", internal.NewInternalError("failed to read password", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	line, _ := stdin.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// confirmDelete shows what goes with the selected records and asks before
// deleting. Nothing selected is reported and skipped.
func confirmDelete(w io.Writer, groups []cascade.Group, yes bool) (bool, error) {
	if len(groups) == 0 || groups[0].Len() == 0 {
		fmt.Fprintln(w, "Nothing matches, nothing to delete.")
		return false, nil
	}
	if err := cascade.Render(w, groups); err != nil {
		return false, err
	}
	if yes {
		return true, nil
	}
	return confirm(fmt.Sprintf("\nDelete %d record(s) and %d dependent record(s)?", groups[0].Len(), cascade.Total(groups))), nil
}
