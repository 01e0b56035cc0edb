package kbdctl

import (
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// KeySource is the part of *glfw.Window the keyboard needs.
type KeySource interface {
	GetKey(key glfw.Key) glfw.Action
}

// Keyboard polls the window for the quit key once per frame.
type Keyboard struct {
	keys    KeySource
	quitKey glfw.Key
	logged  bool
}

func New(keys KeySource) *Keyboard {
	return &Keyboard{keys: keys, quitKey: glfw.KeyEscape}
}

// CloseRequested reports whether the quit key is held down.
func (k *Keyboard) CloseRequested() bool {
	if k.keys.GetKey(k.quitKey) != glfw.Press {
		return false
	}
	if !k.logged {
		slog.Info("told to quit, exiting", slog.String("module", "kbdctl"))
		k.logged = true
	}
	return true
}
