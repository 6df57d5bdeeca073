package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-storefront/common"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestMouseButtonMapping(t *testing.T) {
	b, ok := mouseButton(glfw.MouseButtonLeft)
	assert.True(t, ok)
	assert.Equal(t, common.MouseButtonPrimary, b)

	b, ok = mouseButton(glfw.MouseButtonRight)
	assert.True(t, ok)
	assert.Equal(t, common.MouseButtonSecondary, b)

	_, ok = mouseButton(glfw.MouseButton4)
	assert.False(t, ok)
}

func TestCursorShapes(t *testing.T) {
	tests := []struct {
		cursor common.Cursor
		want   glfw.StandardCursor
	}{
		{common.CursorDefault, glfw.ArrowCursor},
		{common.CursorGrab, glfw.HandCursor},
		{common.CursorGrabbing, glfw.HandCursor},
		{common.CursorMove, glfw.HResizeCursor},
		{common.CursorCrosshair, glfw.CrosshairCursor},
	}
	for _, tt := range tests {
		t.Run(tt.cursor.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, cursorShape(tt.cursor))
		})
	}
}

func TestUninitializedWindowIsInert(t *testing.T) {
	w := &engineWindow{}
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
	w.SetCursor(common.CursorGrab)
}
