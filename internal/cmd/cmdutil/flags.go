// Package cmdutil provides shared flags and manifest lookup for propmerge commands.
package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/propmerge/pkg/manifest"
)

// ManifestFlags holds the manifest selection flag.
type ManifestFlags struct {
	Manifest string
}

// AddManifestFlags adds --manifest to cmd.
func AddManifestFlags(cmd *cobra.Command) *ManifestFlags {
	flags := &ManifestFlags{}
	cmd.Flags().StringVarP(&flags.Manifest, "manifest", "m", "",
		"manifest file (default: $PROPMERGE_MANIFEST or ./propmerge.{yaml,yml,toml,hcl,json})")
	return flags
}

// ResolveManifest picks the manifest path: the flag value, then the
// configured path, then the first propmerge.<ext> found in dir.
func ResolveManifest(flag, configured, dir string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if configured != "" {
		return configured, nil
	}
	return manifest.Find(dir)
}

// LoadManifest resolves, loads and validates a manifest.
func LoadManifest(flag, configured, dir string) (*manifest.Manifest, error) {
	path, err := ResolveManifest(flag, configured, dir)
	if err != nil {
		return nil, err
	}
	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
