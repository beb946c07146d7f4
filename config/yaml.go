package config

import (
	"github.com/pkg/errors"
	"go.yaml.in/yaml/v4"
)

// yamlParser implements koanf.Parser on top of go.yaml.in/yaml/v4.
type yamlParser struct{}

func (yamlParser) Unmarshal(b []byte) (map[string]any, error) {
	out := map[string]any{}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, errors.Wrap(err, "unmarshal yaml")
	}
	return out, nil
}

func (yamlParser) Marshal(m map[string]any) ([]byte, error) {
	b, err := yaml.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "marshal yaml")
	}
	return b, nil
}
