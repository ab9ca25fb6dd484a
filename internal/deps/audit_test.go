package deps

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountGoUpdates(t *testing.T) {
	out := []byte(`{"Path": "example.com/app", "Main": true}
{"Path": "github.com/spf13/cobra", "Version": "v1.7.0", "Update": {"Version": "v1.8.0"}}
{"Path": "github.com/stretchr/testify", "Version": "v1.9.0"}
{"Path": "gopkg.in/yaml.v3", "Version": "v3.0.0", "Update": {"Version": "v3.0.1"}}
`)

	assert.Equal(t, 2, countGoUpdates(out))
}

func TestCountGoUpdates_Empty(t *testing.T) {
	assert.Equal(t, 0, countGoUpdates(nil))
	assert.Equal(t, 0, countGoUpdates([]byte("not json")))
}

func TestCountGoVulns_DistinctOSVs(t *testing.T) {
	out := []byte(`{"config": {"protocol_version": "v1.0.0"}}
{"finding": {"osv": "GO-2024-1234"}}
{"finding": {"osv": "GO-2024-1234"}}
{"finding": {"osv": "GO-2024-5678"}}
{"progress": {"message": "scanning"}}
`)

	assert.Equal(t, 2, countGoVulns(out), "the same OSV reported at several call sites counts once")
}

func TestCountGoVulns_NoFindings(t *testing.T) {
	out := []byte(`{"config": {"protocol_version": "v1.0.0"}}
{"progress": {"message": "scanning"}}
`)

	assert.Equal(t, 0, countGoVulns(out))
}
