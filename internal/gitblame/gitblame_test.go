package gitblame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAnnotator_OutsideRepository(t *testing.T) {
	annotator, ok := NewAnnotator(t.TempDir(), nil)

	assert.False(t, ok)
	assert.Nil(t, annotator)
}
