package manifest

import (
	"github.com/goccy/go-yaml"

	"github.com/agentstation/propmerge/pkg/errors"
)

type yamlDocument struct {
	Merges []Entry `yaml:"merges"`
}

func decodeYAML(data []byte, file string) ([]Entry, error) {
	var doc yamlDocument
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.DisallowUnknownField()); err != nil {
		return nil, errors.WrapParse(string(FormatYAML), file, err)
	}
	return doc.Merges, nil
}
