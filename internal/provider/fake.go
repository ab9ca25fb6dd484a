package provider

import (
	"os"
	"path/filepath"
	"sort"
)

// FakeProvider implements the Provider interface for testing.
type FakeProvider struct {
	basePath string
	files    map[string][]File
	content  map[string]string
}

// NewFakeProvider creates a new fake provider.
func NewFakeProvider() *FakeProvider {
	p := &FakeProvider{
		basePath: "/fake",
		files:    make(map[string][]File),
		content:  make(map[string]string),
	}
	p.files[""] = make([]File, 0)
	return p
}

// AddFile adds a file with content to the fake provider.
func (p *FakeProvider) AddFile(path, content string) {
	dir := filepath.Dir(path)
	if dir == "." {
		dir = ""
	} else {
		p.AddDir(dir)
	}

	p.files[dir] = append(p.files[dir], File{
		Name: filepath.Base(path),
		Path: path,
		Type: "file",
		Size: int64(len(content)),
	})
	sortFiles(p.files[dir])

	p.content[path] = content
}

// AddDir adds a directory to the fake provider, registering it in its parent.
func (p *FakeProvider) AddDir(path string) {
	if _, exists := p.files[path]; exists {
		return
	}
	p.files[path] = make([]File, 0)

	if path == "" {
		return
	}
	parent := filepath.Dir(path)
	if parent == "." {
		parent = ""
	} else {
		p.AddDir(parent)
	}
	p.files[parent] = append(p.files[parent], File{
		Name: filepath.Base(path),
		Path: path,
		Type: "dir",
	})
	sortFiles(p.files[parent])
}

func sortFiles(files []File) {
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
}

// ListDir returns the contents of a directory.
func (p *FakeProvider) ListDir(path string) ([]File, error) {
	if path == "." {
		path = ""
	}
	files, exists := p.files[path]
	if !exists {
		return nil, os.ErrNotExist
	}
	return files, nil
}

// ReadFile reads file content as bytes.
func (p *FakeProvider) ReadFile(path string) ([]byte, error) {
	content, exists := p.content[path]
	if !exists {
		return nil, os.ErrNotExist
	}
	return []byte(content), nil
}

// Exists checks if a file or directory exists.
func (p *FakeProvider) Exists(path string) (bool, error) {
	if path == "." {
		path = ""
	}
	if _, ok := p.content[path]; ok {
		return true, nil
	}
	_, ok := p.files[path]
	return ok, nil
}

// IsDir checks if a path is a directory.
func (p *FakeProvider) IsDir(path string) (bool, error) {
	if path == "." {
		path = ""
	}
	if _, ok := p.files[path]; ok {
		return true, nil
	}
	if _, ok := p.content[path]; ok {
		return false, nil
	}
	return false, os.ErrNotExist
}

// GetBasePath returns the base path for this provider.
func (p *FakeProvider) GetBasePath() string {
	return p.basePath
}
