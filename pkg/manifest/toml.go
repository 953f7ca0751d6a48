package manifest

import (
	"bytes"
	stderrors "errors"

	"github.com/pelletier/go-toml/v2"

	"github.com/agentstation/propmerge/pkg/errors"
)

type tomlDocument struct {
	Merges []Entry `toml:"merges"`
}

func decodeTOML(data []byte, file string) ([]Entry, error) {
	var doc tomlDocument
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		perr := errors.NewParseError(string(FormatTOML), file, err.Error(), err)
		var derr *toml.DecodeError
		if stderrors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	return doc.Merges, nil
}
