package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
)

// stdin is shared so prompts and interactive loops read one buffered stream.
var stdin = bufio.NewScanner(os.Stdin)

// readLine prints label and reads one trimmed line.
func readLine(label string) (string, error) {
	fmt.Print(label)
	if !stdin.Scan() {
		if err := stdin.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(stdin.Text()), nil
}

// readSecret reads a line without echo when stdin is a terminal.
func readSecret(label string) (string, error) {
	if !term.IsTerminal(os.Stdin.Fd()) {
		return readLine(label)
	}
	fmt.Print(label)
	b, err := term.ReadPassword(os.Stdin.Fd())
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// flagOrPrompt returns the flag value, or prompts for it when empty.
func flagOrPrompt(value, label string, secret bool) (string, error) {
	if value != "" {
		return value, nil
	}
	var (
		v   string
		err error
	)
	if secret {
		v, err = readSecret(label)
	} else {
		v, err = readLine(label)
	}
	if errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%sinput closed", label)
	}
	return v, err
}

// confirm asks a yes/no question; anything but y/yes is no.
func confirm(question string) bool {
	answer, err := readLine(question + " [y/N] ")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

// rule prints a horizontal separator of width n.
func rule(n int) {
	fmt.Println(strings.Repeat("─", n))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
