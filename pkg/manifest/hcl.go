package manifest

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/agentstation/propmerge/pkg/errors"
)

// hclDocument is the top-level structure of an HCL manifest.
type hclDocument struct {
	Merges []*Entry `hcl:"merge,block"`
}

func decodeHCL(data []byte, file string) ([]Entry, error) {
	name := file
	if name == "" {
		name = "manifest.hcl"
	}

	f, diags := hclparse.NewParser().ParseHCL(data, name)
	if diags.HasErrors() {
		return nil, hclParseError(file, diags)
	}

	var doc hclDocument
	if diags := gohcl.DecodeBody(f.Body, nil, &doc); diags.HasErrors() {
		return nil, hclParseError(file, diags)
	}

	entries := make([]Entry, 0, len(doc.Merges))
	for _, e := range doc.Merges {
		entries = append(entries, *e)
	}
	return entries, nil
}

// hclParseError converts diagnostics to a ParseError positioned at the
// first error.
func hclParseError(file string, diags hcl.Diagnostics) error {
	perr := errors.NewParseError(string(FormatHCL), file, diags.Error(), diags)
	for _, d := range diags {
		if d.Severity == hcl.DiagError && d.Subject != nil {
			perr.Line = d.Subject.Start.Line
			perr.Column = d.Subject.Start.Column
			break
		}
	}
	return perr
}
