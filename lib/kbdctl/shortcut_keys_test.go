package kbdctl

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

type fakeKeys map[glfw.Key]glfw.Action

func (f fakeKeys) GetKey(key glfw.Key) glfw.Action {
	return f[key]
}

func TestEscapeRequestsClose(t *testing.T) {
	keys := fakeKeys{}
	kbd := New(keys)

	assert.False(t, kbd.CloseRequested())

	keys[glfw.KeyEscape] = glfw.Press
	assert.True(t, kbd.CloseRequested())
	assert.True(t, kbd.CloseRequested())
}

func TestOtherKeysIgnored(t *testing.T) {
	kbd := New(fakeKeys{glfw.KeyQ: glfw.Press, glfw.KeySpace: glfw.Press})
	assert.False(t, kbd.CloseRequested())
}

func TestReleasedEscapeIgnored(t *testing.T) {
	kbd := New(fakeKeys{glfw.KeyEscape: glfw.Release})
	assert.False(t, kbd.CloseRequested())
}
