package boost

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandler_Creation(t *testing.T) {
	// Simple test to verify handler can be created
	// Handler logic is better tested through integration tests
	assert.NotNil(t, &Handler{})
}
