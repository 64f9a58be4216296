package ingest

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// LoadManifest reads a standalone source manifest from a YAML file. The
// manifest mirrors the sources section of config.yaml and lets a run point at
// a different set of inputs without editing the main config.
func LoadManifest(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read manifest %s", path)
	}

	// The YAML has a top-level "sources" key
	var wrapper struct {
		Sources []Source `yaml:"sources"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrapf(err, "ingest: parse manifest %s", path)
	}
	if len(wrapper.Sources) == 0 {
		return nil, eris.Errorf("ingest: manifest %s lists no sources", path)
	}

	for i, src := range wrapper.Sources {
		if src.ID == "" {
			return nil, eris.Errorf("ingest: manifest %s: source %d has no id", path, i)
		}
		if src.Path == "" {
			return nil, eris.Errorf("ingest: manifest %s: source %q has no path", path, src.ID)
		}
	}
	return wrapper.Sources, nil
}
