package compose

import (
	"gopkg.in/yaml.v3"
)

// Mount is one volume mount declaration in a resolved service.
type Mount struct {
	Type   string `yaml:"type"`
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// Service carries the resolved-config fields the tool reads. Everything
// else in the document is ignored here.
type Service struct {
	Image         string  `yaml:"image"`
	ContainerName string  `yaml:"container_name"`
	Volumes       []Mount `yaml:"volumes"`
}

// Config is the typed view of `compose config` output.
type Config struct {
	Services map[string]Service `yaml:"services"`
}

// ParseConfig decodes resolved-configuration YAML.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// VolumeSource returns the named-volume identifier declared for the
// given service and container path, or "" when no volume mount matches.
// This is the static fallback stage of volume resolution; it is a pure
// function over an already-parsed configuration.
func (c *Config) VolumeSource(service, containerPath string) string {
	if c == nil {
		return ""
	}
	svc, ok := c.Services[service]
	if !ok {
		return ""
	}
	for _, m := range svc.Volumes {
		if m.Type == "volume" && m.Target == containerPath {
			return m.Source
		}
	}
	return ""
}
