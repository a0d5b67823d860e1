package error

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodes(t *testing.T) {
	orig := Exit
	defer func() { Exit = orig }()

	code := -1
	Exit = func(c int) { code = c }

	External("bad config %s", "x.xml")
	assert.Equal(t, 1, code)

	Internal("broken invariant %d", 3)
	assert.Equal(t, 2, code)
}
