package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `john\_doe \*x\* \`y\` \[z]`, EscapeMarkdown("john_doe *x* `y` [z]"))
	assert.Equal(t, "plain text", EscapeMarkdown("plain text"))
}

func TestCodeSafe(t *testing.T) {
	assert.Equal(t, "UPI'42_x", CodeSafe("UPI`42_x"))
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", Clip("short", 10))
	assert.Equal(t, "abc…", Clip("abcdef", 4))
	assert.Equal(t, "नम…", Clip("नमस्ते", 3))
	assert.Equal(t, "anything", Clip("anything", 0))
}
