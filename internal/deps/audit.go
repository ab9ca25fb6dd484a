package deps

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"time"

	"log/slog"
)

// auditTimeout bounds every external package-manager invocation.
const auditTimeout = 60 * time.Second

// AuditResult holds dependency health counters for one manifest.
type AuditResult struct {
	Outdated        int
	Vulnerabilities int
}

// Auditor queries a package manager for dependency health. Implementations
// are capability interfaces: Available reports whether the backing tool
// exists, and Audit errors only describe degraded data, never fatal state.
type Auditor interface {
	// Tool returns the manifest tool this auditor serves (ToolGo, ToolNpm).
	Tool() string

	// Available reports whether the external tool can be invoked.
	Available() bool

	// Audit runs the tool against dir and returns health counters.
	Audit(ctx context.Context, dir string) (AuditResult, error)
}

// DefaultAuditors returns the auditors for the supported manifest tools.
func DefaultAuditors(logger *slog.Logger) []Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	return []Auditor{
		&GoAuditor{logger: logger},
		&NpmAuditor{logger: logger},
	}
}

// AuditorFor selects the auditor serving the given tool, nil when none does.
func AuditorFor(auditors []Auditor, tool string) Auditor {
	for _, a := range auditors {
		if a.Tool() == tool {
			return a
		}
	}
	return nil
}

// GoAuditor audits Go modules with govulncheck (vulnerabilities) and
// `go list -u -m` (available updates).
type GoAuditor struct {
	logger *slog.Logger
}

func (a *GoAuditor) Tool() string { return ToolGo }

func (a *GoAuditor) Available() bool {
	_, err := exec.LookPath("go")
	return err == nil
}

func (a *GoAuditor) Audit(ctx context.Context, dir string) (AuditResult, error) {
	ctx, cancel := context.WithTimeout(ctx, auditTimeout)
	defer cancel()

	var result AuditResult

	// Updates: count modules with a newer version available.
	out, err := runTool(ctx, dir, "go", "list", "-u", "-m", "-json", "all")
	if err != nil {
		a.logger.Debug("go list failed, skipping outdated count", "error", err)
	} else {
		result.Outdated = countGoUpdates(out)
	}

	// Vulnerabilities: govulncheck is optional on top of the go toolchain.
	if _, err := exec.LookPath("govulncheck"); err == nil {
		out, err := runTool(ctx, dir, "govulncheck", "-format", "json", "./...")
		if err != nil {
			a.logger.Debug("govulncheck failed, skipping vulnerability count", "error", err)
		} else {
			result.Vulnerabilities = countGoVulns(out)
		}
	}

	return result, nil
}

// countGoUpdates parses the JSON stream of `go list -u -m -json all`.
func countGoUpdates(out []byte) int {
	count := 0
	dec := json.NewDecoder(bytes.NewReader(out))
	for dec.More() {
		var mod struct {
			Main   bool `json:"Main"`
			Update *struct {
				Version string `json:"Version"`
			} `json:"Update"`
		}
		if err := dec.Decode(&mod); err != nil {
			break
		}
		if !mod.Main && mod.Update != nil {
			count++
		}
	}
	return count
}

// countGoVulns counts distinct OSV entries in govulncheck's JSON stream.
func countGoVulns(out []byte) int {
	seen := make(map[string]bool)
	// The output is a concatenated JSON sequence, decode message by message.
	dec := json.NewDecoder(bytes.NewReader(out))
	for dec.More() {
		var msg struct {
			Finding *struct {
				OSV string `json:"osv"`
			} `json:"finding"`
		}
		if err := dec.Decode(&msg); err != nil {
			break
		}
		if msg.Finding != nil && msg.Finding.OSV != "" {
			seen[msg.Finding.OSV] = true
		}
	}
	return len(seen)
}

// NpmAuditor audits Node manifests with `npm outdated` and `npm audit`.
type NpmAuditor struct {
	logger *slog.Logger
}

func (a *NpmAuditor) Tool() string { return ToolNpm }

func (a *NpmAuditor) Available() bool {
	_, err := exec.LookPath("npm")
	return err == nil
}

func (a *NpmAuditor) Audit(ctx context.Context, dir string) (AuditResult, error) {
	ctx, cancel := context.WithTimeout(ctx, auditTimeout)
	defer cancel()

	var result AuditResult

	// npm outdated exits nonzero when anything is outdated; the JSON body
	// is still usable.
	if out, err := runTool(ctx, dir, "npm", "outdated", "--json"); len(out) > 0 {
		var outdated map[string]json.RawMessage
		if jsonErr := json.Unmarshal(out, &outdated); jsonErr == nil {
			result.Outdated = len(outdated)
		} else {
			a.logger.Debug("npm outdated produced unusable output", "error", err)
		}
	}

	if out, err := runTool(ctx, dir, "npm", "audit", "--json"); len(out) > 0 {
		var audit struct {
			Metadata struct {
				Vulnerabilities map[string]int `json:"vulnerabilities"`
			} `json:"metadata"`
		}
		if jsonErr := json.Unmarshal(out, &audit); jsonErr == nil {
			for level, n := range audit.Metadata.Vulnerabilities {
				if level == "total" {
					continue
				}
				result.Vulnerabilities += n
			}
		} else {
			a.logger.Debug("npm audit produced unusable output", "error", err)
		}
	}

	return result, nil
}

// runTool executes an external tool, returning whatever stdout it produced.
func runTool(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	err := cmd.Run()
	return stdout.Bytes(), err
}
