package capture

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock продвигается только при чтении чанка.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// exclusiveSource позволяет держать открытым только одно устройство.
type exclusiveSource struct {
	mu      sync.Mutex
	open    bool
	opens   int
	closes  int
	openErr error
	readErr error
	failAt  int
	clock   *fakeClock
}

func (s *exclusiveSource) Open(f Format) (Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openErr != nil {
		return nil, s.openErr
	}
	if s.open {
		return nil, errors.New("device busy")
	}
	s.open = true
	s.opens++
	return &fakeDevice{src: s, chunk: make([]byte, f.BytesPerChunk()), step: f.ChunkDuration()}, nil
}

func (s *exclusiveSource) isOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

type fakeDevice struct {
	src   *exclusiveSource
	chunk []byte
	step  time.Duration
	reads int
}

func (d *fakeDevice) Read() ([]byte, error) {
	d.reads++
	if d.src.failAt > 0 && d.reads >= d.src.failAt {
		return nil, d.src.readErr
	}
	if d.src.clock != nil {
		d.src.clock.Advance(d.step)
	}
	return d.chunk, nil
}

func (d *fakeDevice) Close() error {
	d.src.mu.Lock()
	defer d.src.mu.Unlock()
	d.src.open = false
	d.src.closes++
	return nil
}

// scriptedRecognizer заканчивает фразу на чанке finalAt (0 - никогда).
type scriptedRecognizer struct {
	finalAt int
	payload string
	err     error
	fed     int
}

func (r *scriptedRecognizer) AcceptWaveform(pcm []byte) (bool, error) {
	r.fed++
	if r.err != nil {
		return false, r.err
	}
	return r.finalAt > 0 && r.fed >= r.finalAt, nil
}

func (r *scriptedRecognizer) Result() string {
	return r.payload
}

func TestCaptureFinalizesEarly(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	src := &exclusiveSource{clock: clock}
	rec := &scriptedRecognizer{finalAt: 3, payload: `{"text": "my name is john"}`}

	res, err := Capture(context.Background(), src, DefaultFormat, 5*time.Second, rec, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if res.State != StateFinalized {
		t.Fatalf("expected finalized, got %v", res.State)
	}
	if res.Text != "my name is john" {
		t.Fatalf("unexpected text %q", res.Text)
	}
	if rec.fed != 3 {
		t.Fatalf("loop must stop at first final result, fed %d chunks", rec.fed)
	}
	if src.isOpen() {
		t.Fatal("device left open")
	}
}

func TestCaptureMissingTextDefaultsToEmpty(t *testing.T) {
	src := &exclusiveSource{}
	rec := &scriptedRecognizer{finalAt: 1, payload: `{"result": []}`}

	res, err := Capture(context.Background(), src, DefaultFormat, time.Second, rec)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if res.State != StateFinalized || res.Text != "" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestCaptureTimesOutWithinOneChunk(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	src := &exclusiveSource{clock: clock}
	rec := &scriptedRecognizer{}
	duration := time.Second

	start := clock.Now()
	res, err := Capture(context.Background(), src, DefaultFormat, duration, rec, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if res.State != StateTimedOut {
		t.Fatalf("expected timed out, got %v", res.State)
	}
	if res.Text != "" {
		t.Fatalf("timed out capture must not return text, got %q", res.Text)
	}

	elapsed := clock.Now().Sub(start)
	if elapsed < duration {
		t.Fatalf("returned too early: %v", elapsed)
	}
	if elapsed > duration+DefaultFormat.ChunkDuration() {
		t.Fatalf("returned too late: %v", elapsed)
	}
}

func TestCaptureTimesOutRealClock(t *testing.T) {
	src := &exclusiveSource{}
	rec := &scriptedRecognizer{}

	start := time.Now()
	res, err := Capture(context.Background(), src, DefaultFormat, 30*time.Millisecond, rec)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if res.State != StateTimedOut {
		t.Fatalf("expected timed out, got %v", res.State)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Fatalf("returned before duration: %v", elapsed)
	}
}

func TestCaptureOpenFailure(t *testing.T) {
	src := &exclusiveSource{openErr: errors.New("no default input device")}

	_, err := Capture(context.Background(), src, DefaultFormat, time.Second, &scriptedRecognizer{})
	if !errors.Is(err, ErrDeviceOpen) {
		t.Fatalf("expected ErrDeviceOpen, got %v", err)
	}
}

func TestCaptureReadFailureReleasesDevice(t *testing.T) {
	readErr := errors.New("input overflow")
	src := &exclusiveSource{failAt: 2, readErr: readErr}

	_, err := Capture(context.Background(), src, DefaultFormat, time.Second, &scriptedRecognizer{})
	if !errors.Is(err, ErrDeviceRead) {
		t.Fatalf("expected ErrDeviceRead, got %v", err)
	}
	if !errors.Is(err, readErr) {
		t.Fatalf("cause must be wrapped, got %v", err)
	}
	if src.isOpen() {
		t.Fatal("device left open after read failure")
	}
}

func TestCaptureRecognizerFailure(t *testing.T) {
	src := &exclusiveSource{}
	rec := &scriptedRecognizer{err: errors.New("accept waveform failed")}

	_, err := Capture(context.Background(), src, DefaultFormat, time.Second, rec)
	if !errors.Is(err, ErrDeviceRead) {
		t.Fatalf("expected ErrDeviceRead, got %v", err)
	}
	if src.isOpen() {
		t.Fatal("device left open")
	}
}

func TestCaptureDecodeFailure(t *testing.T) {
	src := &exclusiveSource{}
	rec := &scriptedRecognizer{finalAt: 1, payload: `{"text": `}

	_, err := Capture(context.Background(), src, DefaultFormat, time.Second, rec)
	if !errors.Is(err, ErrRecognizerDecode) {
		t.Fatalf("expected ErrRecognizerDecode, got %v", err)
	}
	if src.isOpen() {
		t.Fatal("device left open")
	}
}

func TestCaptureStopped(t *testing.T) {
	src := &exclusiveSource{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Capture(ctx, src, DefaultFormat, time.Second, &scriptedRecognizer{})
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if res.State != StateStopped {
		t.Fatalf("expected stopped, got %v", res.State)
	}
	if src.isOpen() {
		t.Fatal("device left open")
	}
}

func TestDeviceReacquiredAfterEveryOutcome(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	src := &exclusiveSource{clock: clock}
	opt := WithClock(clock.Now)

	// Finalized
	if _, err := Capture(context.Background(), src, DefaultFormat, time.Second,
		&scriptedRecognizer{finalAt: 1, payload: `{"text":"a"}`}, opt); err != nil {
		t.Fatalf("finalized capture: %v", err)
	}

	// TimedOut
	if _, err := Capture(context.Background(), src, DefaultFormat, time.Second, &scriptedRecognizer{}, opt); err != nil {
		t.Fatalf("timed out capture: %v", err)
	}

	// DeviceReadFailure
	src.failAt, src.readErr = 1, errors.New("boom")
	if _, err := Capture(context.Background(), src, DefaultFormat, time.Second, &scriptedRecognizer{}, opt); err == nil {
		t.Fatal("expected read failure")
	}
	src.failAt = 0

	// Устройство снова доступно.
	if _, err := Capture(context.Background(), src, DefaultFormat, time.Second,
		&scriptedRecognizer{finalAt: 1, payload: `{"text":"b"}`}, opt); err != nil {
		t.Fatalf("reacquire: %v", err)
	}

	if src.opens != 4 || src.closes != 4 {
		t.Fatalf("opens=%d closes=%d, want 4/4", src.opens, src.closes)
	}
}

func TestSessionCloseIdempotent(t *testing.T) {
	var nilSession *Session
	if err := nilSession.Close(); err != nil {
		t.Fatalf("nil session close: %v", err)
	}

	src := &exclusiveSource{}
	s, err := Open(src, DefaultFormat)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if src.closes != 1 {
		t.Fatalf("device closed %d times", src.closes)
	}

	if _, err := s.Listen(context.Background(), time.Second, &scriptedRecognizer{}); !errors.Is(err, ErrDeviceRead) {
		t.Fatalf("listen on closed session: %v", err)
	}
}

func TestSessionStateTransitions(t *testing.T) {
	src := &exclusiveSource{}
	s, err := Open(src, DefaultFormat)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if s.State() != StateIdle {
		t.Fatalf("expected idle, got %v", s.State())
	}

	var during State
	rec := &scriptedRecognizer{finalAt: 2, payload: `{"text":"x"}`}
	_, err = s.Listen(context.Background(), time.Second, rec, WithTap(func([]byte) {
		during = s.State()
	}))
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	if during != StateRecording {
		t.Fatalf("expected recording during loop, got %v", during)
	}
	if s.State() != StateFinalized {
		t.Fatalf("expected finalized, got %v", s.State())
	}
}

func TestTapSeesEveryChunk(t *testing.T) {
	src := &exclusiveSource{}
	var chunks int
	rec := &scriptedRecognizer{finalAt: 4, payload: `{"text":""}`}

	if _, err := Capture(context.Background(), src, DefaultFormat, time.Second, rec, WithTap(func(pcm []byte) {
		if len(pcm) != DefaultFormat.BytesPerChunk() {
			t.Errorf("chunk size %d", len(pcm))
		}
		chunks++
	})); err != nil {
		t.Fatalf("capture: %v", err)
	}
	if chunks != 4 {
		t.Fatalf("tap saw %d chunks, want 4", chunks)
	}
}
