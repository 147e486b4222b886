package editor

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const AgentsPrefix = "Agents: "

// ComposeQuery creates the text presented to the editor.
func ComposeQuery(agents []string, query string) string {
	var b bytes.Buffer
	b.WriteString("# Marketeer query\n")
	b.WriteString("# Lines starting with '#' are ignored.\n")
	b.WriteString("# List agents (comma-separated) or leave empty to let the service choose.\n")
	b.WriteString("# After '---', describe your business goal.\n")
	b.WriteString(AgentsPrefix)
	b.WriteString(strings.Join(agents, ", "))
	b.WriteString("\n---\n")
	if query != "" {
		if !strings.HasSuffix(query, "\n") {
			query += "\n"
		}
		b.WriteString(query)
	}
	return b.String()
}

// ParseEditedQuery extracts agents and the query from the editor output.
// Comment lines are skipped only in the header; the query keeps them.
func ParseEditedQuery(s string) (agents []string, query string) {
	inBody := false
	var bodyLines []string
	for _, line := range strings.Split(s, "\n") {
		if inBody {
			bodyLines = append(bodyLines, line)
			continue
		}
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"):
		case strings.HasPrefix(trimmed, strings.TrimSpace(AgentsPrefix)):
			raw := strings.TrimPrefix(trimmed, strings.TrimSpace(AgentsPrefix))
			for _, a := range strings.Split(raw, ",") {
				if a = strings.TrimSpace(a); a != "" {
					agents = append(agents, a)
				}
			}
		case trimmed == "---":
			inBody = true
		}
	}
	return agents, strings.TrimSpace(strings.Join(bodyLines, "\n"))
}

// PreferredEditor finds a suitable editor from env or common defaults.
func PreferredEditor() (string, error) {
	if v := os.Getenv("VISUAL"); v != "" {
		return v, nil
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e, nil
	}
	for _, cand := range []string{"nvim", "vim", "vi", "nano"} {
		if p, err := exec.LookPath(cand); err == nil {
			return p, nil
		}
	}
	return "", errors.New("no editor found; set $EDITOR or $VISUAL")
}

// TempPath returns the scratch file used for composing queries.
func TempPath() (string, error) {
	const name = "query.marketeer.md"
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "marketeer", name), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "marketeer", name), nil
}

func writeFile0600(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, fs.FileMode(0o600))
}

// OpenAt opens the editor at path with initial content and returns final bytes and whether it changed.
func OpenAt(path string, initial []byte) (final []byte, changed bool, err error) {
	if err := writeFile0600(path, initial); err != nil {
		return nil, false, err
	}
	ed, err := PreferredEditor()
	if err != nil {
		return nil, false, err
	}
	// Run via a shell so VISUAL/EDITOR may carry flags.
	cmd := exec.Command("sh", "-c", "$EDITORCMD \"$FILEPATH\"")
	cmd.Env = append(os.Environ(), "EDITORCMD="+ed, "FILEPATH="+path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, false, err
	}
	out, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return out, !bytes.Equal(out, initial), nil
}
