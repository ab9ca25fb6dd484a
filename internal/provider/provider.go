// Package provider abstracts file system access so rules and the collector
// can be tested against in-memory trees.
package provider

// File represents a file or directory entry.
type File struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"` // "file" or "dir"
	Size int64  `json:"size"`
}

// Provider defines the file system operations the scanner needs.
type Provider interface {
	// ListDir returns the contents of a directory, sorted by name.
	ListDir(path string) ([]File, error)

	// ReadFile reads file content as bytes.
	ReadFile(path string) ([]byte, error)

	// Exists checks if a file or directory exists.
	Exists(path string) (bool, error)

	// IsDir checks if a path is a directory.
	IsDir(path string) (bool, error)

	// GetBasePath returns the base path for this provider.
	GetBasePath() string
}
