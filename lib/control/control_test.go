package control

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestClose(t *testing.T) {
	c := New()
	assert.False(t, c.CloseRequested())

	events := make(chan EventDataClose, 2)
	c.AddEventListener(EventClose, func(_ *Control, data interface{}) {
		events <- data.(EventDataClose)
	})

	c.RequestClose("api")
	c.RequestClose("again")
	assert.True(t, c.CloseRequested())

	select {
	case ev := <-events:
		assert.Equal(t, "api", ev.Reason)
	case <-time.After(time.Second):
		t.Fatal("no close event")
	}
	select {
	case ev := <-events:
		t.Fatalf("second close event %v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestReloadsAreMerged(t *testing.T) {
	c := New()
	c.RequestReload()
	c.RequestReload()
	c.RequestReload()

	var rebuilds int
	c.ServiceReloads(func() error { rebuilds++; return nil })
	c.ServiceReloads(func() error { rebuilds++; return nil })
	assert.Equal(t, 1, rebuilds)
}

func TestServiceReloadsWithoutRequest(t *testing.T) {
	c := New()
	c.ServiceReloads(func() error {
		t.Fatal("rebuild without request")
		return nil
	})
}

func TestReloadEventCarriesError(t *testing.T) {
	c := New()
	events := make(chan EventDataReload, 1)
	c.AddEventListener(EventReload, func(_ *Control, data interface{}) {
		events <- data.(EventDataReload)
	})

	c.RequestReload()
	c.ServiceReloads(func() error { return errors.New("0:3: syntax error") })

	select {
	case ev := <-events:
		assert.False(t, ev.OK)
		assert.Equal(t, "0:3: syntax error", ev.Error)
		assert.Equal(t, EventReload, ev.Event)
	case <-time.After(time.Second):
		t.Fatal("no reload event")
	}
}

func TestCapture(t *testing.T) {
	c := New()
	want := image.NewNRGBA(image.Rect(0, 0, 2, 2))

	result := make(chan *image.NRGBA)
	go func() {
		img, err := c.RequestCapture(context.Background())
		assert.NoError(t, err)
		result <- img
	}()

	var reads int
	deadline := time.After(5 * time.Second)
	for {
		c.ServiceCaptures(func() (*image.NRGBA, error) { reads++; return want, nil })
		select {
		case img := <-result:
			assert.Same(t, want, img)
			assert.Equal(t, 1, reads)
			return
		case <-deadline:
			t.Fatal("capture never answered")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestCaptureNotReadWithoutRequest(t *testing.T) {
	c := New()
	c.ServiceCaptures(func() (*image.NRGBA, error) {
		t.Fatal("read without request")
		return nil, nil
	})
}

func TestCaptureCancelled(t *testing.T) {
	c := New()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.RequestCapture(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestShutdownFailsPendingCaptures(t *testing.T) {
	c := New()
	errs := make(chan error)
	go func() {
		_, err := c.RequestCapture(context.Background())
		errs <- err
	}()

	require.Eventually(t, func() bool { return len(c.captures) == 1 }, time.Second, time.Millisecond)
	c.Shutdown()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrShutdown)
	case <-time.After(time.Second):
		t.Fatal("capture not failed on shutdown")
	}
}

func TestCaptureAfterShutdownFailsFast(t *testing.T) {
	c := New()
	c.Shutdown()
	c.Shutdown()

	start := time.Now()
	_, err := c.RequestCapture(context.Background())
	assert.ErrorIs(t, err, ErrShutdown)
	assert.Less(t, time.Since(start), time.Second)
}

func TestCaptureErrorReachesRequester(t *testing.T) {
	c := New()
	readErr := errors.New("framebuffer is empty")

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := c.RequestCapture(context.Background())
			errs <- err
		}()
	}
	require.Eventually(t, func() bool { return len(c.captures) == 2 }, time.Second, time.Millisecond)

	var reads int
	c.ServiceCaptures(func() (*image.NRGBA, error) { reads++; return nil, readErr })

	for i := 0; i < 2; i++ {
		select {
		case err := <-errs:
			assert.ErrorIs(t, err, readErr)
		case <-time.After(time.Second):
			t.Fatal("capture error never delivered")
		}
	}
	assert.Equal(t, 1, reads)
}
