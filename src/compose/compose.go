// Package compose manages the installation's orchestration descriptor
// and the typed view of its resolved configuration.
package compose

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"agentstack/src/netfetch"
)

const (
	// DescriptorFile is the orchestration descriptor name inside a
	// data directory.
	DescriptorFile = "docker-compose.yml"

	// bridgeDescriptorFile is the remote variant that also runs the
	// messaging bridge service.
	bridgeDescriptorFile = "docker-compose-x-bridge.yml"
)

// Exists reports whether the data directory holds a descriptor.
func Exists(dataDir string) bool {
	_, err := os.Stat(filepath.Join(dataDir, DescriptorFile))
	return err == nil
}

// Download fetches the descriptor for the chosen variant into the data
// directory. The local file is always named DescriptorFile regardless
// of variant.
func Download(dataDir string, withBridge bool) error {
	remote := DescriptorFile
	if withBridge {
		remote = bridgeDescriptorFile
	}
	return netfetch.File(remote, filepath.Join(dataDir, DescriptorFile))
}

// NormalizeMirror strips the scheme and trailing slashes from a
// registry mirror setting.
func NormalizeMirror(mirror string) string {
	mirror = strings.TrimPrefix(mirror, "https://")
	mirror = strings.TrimPrefix(mirror, "http://")
	return strings.TrimRight(mirror, "/")
}

// ApplyMirror rewrites every service image in the descriptor to pull
// through the given registry mirror. The document is handled as an
// untyped map so fields the tool never reads pass through unchanged.
func ApplyMirror(dataDir, mirror string) error {
	mirror = NormalizeMirror(mirror)
	if mirror == "" {
		return nil
	}
	path := filepath.Join(dataDir, DescriptorFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", DescriptorFile, err)
	}
	services, ok := doc["services"].(map[string]any)
	if !ok {
		return nil
	}

	modified := false
	for _, raw := range services {
		service, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		image, ok := service["image"].(string)
		if !ok || image == "" || strings.HasPrefix(image, mirror+"/") {
			continue
		}
		service["image"] = mirror + "/" + image
		modified = true
	}
	if !modified {
		return nil
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
