// Package constants provides shared constants used throughout the propmerge codebase.
// This includes file permissions, defaults and limits that should be consistent
// across the engine, the manifest loader and the CLI.
package constants

// FilePermissions is the permission for created target and log files (rw-r--r--)
const FilePermissions = 0644

// Encoding constants
const (
	// DefaultEncoding is used when a merge job does not name one
	DefaultEncoding = "UTF-8"

	// Newline terminates every line written to a target file
	Newline = "\n"
)

// Properties syntax constants
const (
	// CommentPrefix marks a line as a comment when it is the first byte
	CommentPrefix = '#'

	// KeySeparator separates the key from the value on a keyed line
	KeySeparator = "="
)

// Buffer constants
const (
	// ReadBufferSize is the buffer size used when streaming source files
	ReadBufferSize = 64 * 1024

	// MaxLineSize is the longest source line the engine accepts
	MaxLineSize = 16 * 1024 * 1024

	// WriteBufferSize is the buffer size used when rendering target files
	WriteBufferSize = 4096
)

// Runner constants
const (
	// DefaultParallelism runs merge jobs one after another
	DefaultParallelism = 1

	// MaxParallelism caps concurrent merge jobs
	MaxParallelism = 64
)

// Manifest constants
const (
	// ManifestBaseName is the file name (without extension) searched for by default
	ManifestBaseName = "propmerge"

	// ManifestEnvVar names the environment variable holding a manifest path
	ManifestEnvVar = "PROPMERGE_MANIFEST"

	// ConfigFileName is the user configuration file searched in $HOME and the working directory
	ConfigFileName = ".propmerge"
)

// ManifestExtensions lists the manifest extensions in lookup order.
var ManifestExtensions = []string{".yaml", ".yml", ".toml", ".hcl", ".json"}
