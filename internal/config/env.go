package config

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	reExport = regexp.MustCompile(`^\s*export\s+([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.*)\s*$`)
	reAssign = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.*)\s*$`)
)

// LoadEnv loads simple shell-style env files into the process environment.
// Lines may be "export KEY=value" or "KEY=value"; values may be unquoted,
// single-quoted, or double-quoted (with \\ and \" escapes in double quotes;
// single quotes are literal). Missing files are skipped.
func LoadEnv(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if fi, err := os.Stat(p); err != nil || fi.IsDir() {
			continue
		}
		f, err := os.Open(p)
		if err != nil {
			continue
		}
		scan := bufio.NewScanner(f)
		for scan.Scan() {
			line := strings.TrimSpace(scan.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			key, val, ok := splitAssignment(line)
			if !ok {
				continue
			}
			os.Setenv(key, unquote(val))
		}
		f.Close()
	}
}

// LoadDefaultEnv loads env from TTK_ENV, ~/.ttk.env, and ./.env (in that
// order), when present.
func LoadDefaultEnv() {
	if p := strings.TrimSpace(os.Getenv("TTK_ENV")); p != "" {
		LoadEnv(p)
	}
	if home, err := os.UserHomeDir(); err == nil {
		LoadEnv(filepath.Join(home, ".ttk.env"))
	}
	LoadEnv(".env")
}

func splitAssignment(line string) (key, val string, ok bool) {
	if m := reExport.FindStringSubmatch(line); m != nil {
		return m[1], strings.TrimSpace(m[2]), true
	}
	if m := reAssign.FindStringSubmatch(line); m != nil {
		return m[1], strings.TrimSpace(m[2]), true
	}
	return "", "", false
}

func unquote(val string) string {
	if len(val) >= 2 && strings.HasPrefix(val, `"`) && strings.HasSuffix(val, `"`) {
		v := val[1 : len(val)-1]
		v = strings.ReplaceAll(v, `\\`, `\`)
		v = strings.ReplaceAll(v, `\"`, `"`)
		return v
	}
	if len(val) >= 2 && strings.HasPrefix(val, "'") && strings.HasSuffix(val, "'") {
		return val[1 : len(val)-1]
	}
	return val
}
