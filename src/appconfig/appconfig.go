// Package appconfig edits the application's YAML configuration file.
// The document is kept as an untyped map: the tool reads a handful of
// well-known keys and passes everything else through untouched.
package appconfig

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"agentstack/src/installation"
)

// Load reads the app config. A missing file yields an empty document.
func Load(inst installation.Installation) (map[string]any, error) {
	data, err := os.ReadFile(inst.AppConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// Save writes the document back, creating the configs directory if
// needed.
func Save(inst installation.Installation, doc map[string]any) error {
	path := inst.AppConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

// Get walks a dotted key path ("MODEL_GROUPS.default.API_KEY") and
// returns the value, or nil when any segment is missing.
func Get(doc map[string]any, keyPath string) any {
	var current any = doc
	for _, key := range strings.Split(keyPath, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = m[key]
		if !ok {
			return nil
		}
	}
	return current
}

// Set walks a dotted key path, creating intermediate maps, and sets
// the final key.
func Set(doc map[string]any, keyPath string, value any) {
	keys := strings.Split(keyPath, ".")
	current := doc
	for _, key := range keys[:len(keys)-1] {
		next, ok := current[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[key] = next
		}
		current = next
	}
	current[keys[len(keys)-1]] = value
}

// system returns the section model groups and admin users live under.
// Older config layouts keep them at the top level.
func system(doc map[string]any) map[string]any {
	if s, ok := doc["system"].(map[string]any); ok {
		return s
	}
	return doc
}

// ModelGroups returns the configured model groups.
func ModelGroups(doc map[string]any) map[string]any {
	if groups, ok := system(doc)["MODEL_GROUPS"].(map[string]any); ok {
		return groups
	}
	return map[string]any{}
}

// SetModelGroup updates or creates a model group with the core triple
// plus any extra fields.
func SetModelGroup(doc map[string]any, name, baseURL, apiKey, model string, extra map[string]any) {
	sys := system(doc)
	groups, ok := sys["MODEL_GROUPS"].(map[string]any)
	if !ok {
		groups = map[string]any{}
		sys["MODEL_GROUPS"] = groups
	}
	group, ok := groups[name].(map[string]any)
	if !ok {
		group = map[string]any{}
	}
	group["BASE_URL"] = baseURL
	group["API_KEY"] = apiKey
	group["CHAT_MODEL"] = model
	for k, v := range extra {
		group[k] = v
	}
	groups[name] = group
}

// AdminUsers returns the configured admin user list.
func AdminUsers(doc map[string]any) []string {
	raw, ok := system(doc)["SUPER_USERS"].([]any)
	if !ok {
		return nil
	}
	users := make([]string, 0, len(raw))
	for _, u := range raw {
		if s, ok := u.(string); ok {
			users = append(users, s)
		}
	}
	return users
}

// SetAdminUsers replaces the admin user list.
func SetAdminUsers(doc map[string]any, users []string) {
	out := make([]any, len(users))
	for i, u := range users {
		out[i] = u
	}
	system(doc)["SUPER_USERS"] = out
}
