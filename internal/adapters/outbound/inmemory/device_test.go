package inmemory_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/storyline/internal/adapters/outbound/inmemory"
	"github.com/sufield/storyline/internal/debug"
	"github.com/sufield/storyline/internal/domain"
	"github.com/sufield/storyline/internal/ports"
)

// Tests in this file share debug.Faults and therefore do not run in parallel.

func TestCamera_CapturePhotoStoresMedia(t *testing.T) {
	store := inmemory.NewMediaStore()
	cam := inmemory.NewCamera(store)
	ctx := context.Background()

	uri, err := cam.CapturePhoto(ctx, "mono")
	require.NoError(t, err)
	assert.Contains(t, uri, "mem://capture/")

	f, err := store.Open(ctx, uri)
	require.NoError(t, err)
	defer f.Close()
	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Contains(t, string(body), "filter=mono")
	assert.Equal(t, int64(len(body)), f.Size)
}

func TestCamera_RecordHitsCap(t *testing.T) {
	cam := inmemory.NewCamera(inmemory.NewMediaStore())

	start := time.Now()
	uri, err := cam.Record(context.Background(), 10*time.Millisecond, "")
	require.NoError(t, err)
	assert.NotEmpty(t, uri)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)

	_, recordings := cam.Counts()
	assert.Equal(t, 1, recordings)
}

func TestCamera_StopRecordingEarly(t *testing.T) {
	cam := inmemory.NewCamera(inmemory.NewMediaStore())
	assert.ErrorIs(t, cam.StopRecording(context.Background()), domain.ErrNotRecording)

	done := make(chan string, 1)
	go func() {
		uri, _ := cam.Record(context.Background(), time.Hour, "")
		done <- uri
	}()

	require.Eventually(t, func() bool {
		return cam.StopRecording(context.Background()) == nil
	}, time.Second, time.Millisecond)

	select {
	case uri := <-done:
		assert.NotEmpty(t, uri)
	case <-time.After(time.Second):
		t.Fatal("recording did not stop")
	}
}

func TestCamera_RecordCancelled(t *testing.T) {
	cam := inmemory.NewCamera(inmemory.NewMediaStore())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cam.Record(ctx, time.Hour, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCamera_Faults(t *testing.T) {
	t.Cleanup(debug.Faults.Reset)
	cam := inmemory.NewCamera(inmemory.NewMediaStore())
	ctx := context.Background()

	debug.Faults.SetDenyNextPermission(true)
	ok, err := cam.RequestPermission(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, _ = cam.RequestPermission(ctx)
	assert.True(t, ok, "fault is one-shot")

	debug.Faults.SetFailNextCapture(true)
	_, err = cam.CapturePhoto(ctx, "")
	assert.ErrorIs(t, err, ports.ErrDeviceUnavailable)

	debug.Faults.SetEmptyNextCaptureURI(true)
	uri, err := cam.CapturePhoto(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, uri)
}

func TestCamera_Release(t *testing.T) {
	cam := inmemory.NewCamera(inmemory.NewMediaStore())
	require.NoError(t, cam.Release())
	assert.True(t, cam.Released())

	_, err := cam.CapturePhoto(context.Background(), "")
	assert.ErrorIs(t, err, ports.ErrDeviceUnavailable)
}

func TestCamera_DenyPermission(t *testing.T) {
	cam := inmemory.NewCamera(inmemory.NewMediaStore())
	cam.DenyPermission()
	ok, _ := cam.RequestPermission(context.Background())
	assert.False(t, ok)
	cam.AllowPermission()
	ok, _ = cam.RequestPermission(context.Background())
	assert.True(t, ok)
}

func TestCamera_RecordStoppedBeforeArmed(t *testing.T) {
	t.Cleanup(debug.Faults.Reset)
	cam := inmemory.NewCamera(inmemory.NewMediaStore())
	require.NoError(t, debug.Faults.SetDelayNextCapture(50))

	ctx, cancel := context.WithCancelCause(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel(ports.ErrRecordingStopped)
	}()

	start := time.Now()
	uri, err := cam.Record(ctx, time.Hour, "")
	require.NoError(t, err)
	assert.NotEmpty(t, uri)
	assert.Less(t, time.Since(start), time.Second)
}

func TestCamera_ReleaseDuringPreflight(t *testing.T) {
	t.Cleanup(debug.Faults.Reset)
	cam := inmemory.NewCamera(inmemory.NewMediaStore())
	require.NoError(t, debug.Faults.SetDelayNextCapture(50))

	done := make(chan error, 1)
	go func() {
		_, err := cam.Record(context.Background(), time.Hour, "")
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, cam.Release())

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ports.ErrDeviceUnavailable)
	case <-time.After(time.Second):
		t.Fatal("released device kept recording")
	}
}
