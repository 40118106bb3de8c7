// Package envfile reads and writes the installation's .env key/value file.
package envfile

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Load parses an .env file into a map. Comments, blank lines, and lines
// without '=' are ignored. A missing file yields an empty map.
func Load(path string) (map[string]string, error) {
	out := map[string]string{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, err
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out, nil
}

// Save writes values back to the .env file, updating existing
// assignments in place and preserving comments and unknown lines.
// Keys not already present are appended at the end.
func Save(path string, values map[string]string) error {
	var lines []string
	written := map[string]bool{}

	if data, err := os.ReadFile(path); err == nil {
		for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
			stripped := strings.TrimSpace(line)
			if stripped == "" || strings.HasPrefix(stripped, "#") {
				lines = append(lines, line)
				continue
			}
			key, _, ok := strings.Cut(stripped, "=")
			if !ok {
				lines = append(lines, line)
				continue
			}
			key = strings.TrimSpace(key)
			if value, found := values[key]; found {
				lines = append(lines, fmt.Sprintf("%s=%s", key, value))
				written[key] = true
			} else {
				lines = append(lines, line)
			}
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	// Append keys the file did not already carry, in a stable order.
	for _, key := range sortedKeys(values) {
		if !written[key] {
			lines = append(lines, fmt.Sprintf("%s=%s", key, values[key]))
		}
	}

	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
