package ui

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var escapeRe = regexp.MustCompile(`\\(.)`)

// SanitizePath cleans up a pasted file path (surrounding quotes, shell
// escapes, doubled backslashes) and verifies the file exists, trying the
// plausible unescaped variants in order.
func SanitizePath(raw string) (string, error) {
	path := strings.Trim(strings.TrimSpace(raw), `'"`)
	path = strings.ReplaceAll(path, `\\`, `\`)

	candidates := []string{
		path,
		strings.NewReplacer(`\ `, " ", `\(`, "(", `\)`, ")").Replace(path),
		escapeRe.ReplaceAllString(path, "$1"),
	}
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("could not find the file %q, ensure the path is correct", path)
}

// AskPath prompts for a file path until a valid one is provided.
func AskPath(p *Printer, msg string) (string, error) {
	for {
		raw, err := AskRequiredText(msg)
		if err != nil {
			return "", err
		}
		path, err := SanitizePath(raw)
		if err != nil {
			p.Fail("%v", err)
			continue
		}
		return path, nil
	}
}
