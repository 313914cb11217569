package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/tasa-sync/tasa/internal/store"
)

// PromptToken reads a bearer token for an environment from stdin. On a
// terminal the input is read without echo; otherwise a plain line is read,
// which keeps piped invocations working.
func PromptToken(env store.Env) (string, error) {
	fmt.Fprintf(os.Stderr, "Enter ARVA token for %s: ", env)

	fd := int(os.Stdin.Fd())
	var (
		line string
		err  error
	)
	if term.IsTerminal(fd) {
		var raw []byte
		raw, err = term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		line = string(raw)
	} else {
		line, err = bufio.NewReader(os.Stdin).ReadString('\n')
		if line != "" {
			err = nil
		}
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	token := strings.TrimSpace(line)
	if token == "" {
		return "", fmt.Errorf("no token entered")
	}
	return token, nil
}

// ResolveToken returns the bearer token for env, prompting interactively when
// no configured token exists. A prompted token is remembered for the rest of
// the process.
func (c *Config) ResolveToken(env store.Env) (string, error) {
	if token, ok := c.Token(env); ok {
		return token, nil
	}
	token, err := PromptToken(env)
	if err != nil {
		return "", err
	}
	RememberToken(env, token)
	return token, nil
}
