// Package deps probes dependency manifests and queries package-manager
// tooling for dependency health. All external tooling is optional: a missing
// tool degrades to "no data", never to a scan failure.
package deps

import (
	"encoding/json"

	"log/slog"

	"golang.org/x/mod/modfile"

	"github.com/petrarca/debt-scanner/internal/provider"
)

// Tool names for manifests and auditors.
const (
	ToolGo  = "go"
	ToolNpm = "npm"
)

// Manifest is a dependency manifest discovered in the scan root.
type Manifest struct {
	Path   string // provider-relative path of the manifest file
	Tool   string // ToolGo or ToolNpm
	Direct int    // number of direct dependencies declared
}

// DetectManifests finds dependency manifests in the root directory.
// Unparseable manifests are skipped with a debug log.
func DetectManifests(p provider.Provider, logger *slog.Logger) []Manifest {
	if logger == nil {
		logger = slog.Default()
	}

	var manifests []Manifest

	if content, err := p.ReadFile("go.mod"); err == nil {
		if m, ok := parseGoMod(content, logger); ok {
			manifests = append(manifests, m)
		}
	}

	if content, err := p.ReadFile("package.json"); err == nil {
		if m, ok := parsePackageJSON(content, logger); ok {
			manifests = append(manifests, m)
		}
	}

	return manifests
}

func parseGoMod(content []byte, logger *slog.Logger) (Manifest, bool) {
	file, err := modfile.Parse("go.mod", content, nil)
	if err != nil {
		logger.Debug("unparseable go.mod", "error", err)
		return Manifest{}, false
	}

	direct := 0
	for _, req := range file.Require {
		if !req.Indirect {
			direct++
		}
	}
	return Manifest{Path: "go.mod", Tool: ToolGo, Direct: direct}, true
}

func parsePackageJSON(content []byte, logger *slog.Logger) (Manifest, bool) {
	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(content, &pkg); err != nil {
		logger.Debug("unparseable package.json", "error", err)
		return Manifest{}, false
	}
	return Manifest{
		Path:   "package.json",
		Tool:   ToolNpm,
		Direct: len(pkg.Dependencies) + len(pkg.DevDependencies),
	}, true
}
