package views

import (
	"context"
	"testing"
	"time"

	"github.com/campushub/backend/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestDebounceSuppressesRepeatViews(t *testing.T) {
	logger.InitializeForTest()
	d := NewDebouncer(nil, time.Minute)
	ctx := context.Background()

	assert.True(t, d.ShouldCount(ctx, "post-1", "user-a"), "first view counts")
	assert.False(t, d.ShouldCount(ctx, "post-1", "user-a"), "repeat inside window suppressed")
	assert.True(t, d.ShouldCount(ctx, "post-1", "user-b"), "different viewer counts")
	assert.True(t, d.ShouldCount(ctx, "post-2", "user-a"), "different resource counts")
}

func TestDebounceWindowExpiry(t *testing.T) {
	logger.InitializeForTest()
	d := NewDebouncer(nil, 10*time.Millisecond)
	ctx := context.Background()

	assert.True(t, d.ShouldCount(ctx, "post-1", "user-a"))
	time.Sleep(20 * time.Millisecond)
	assert.True(t, d.ShouldCount(ctx, "post-1", "user-a"), "view counts again after the window")
}

func TestDebounceDefaultWindow(t *testing.T) {
	d := NewDebouncer(nil, 0)
	assert.Equal(t, DefaultWindow, d.window)
}
