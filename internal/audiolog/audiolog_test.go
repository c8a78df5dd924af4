package audiolog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"

	"voiceroll/internal/capture"
)

func TestNewDisabled(t *testing.T) {
	if a := New("", capture.DefaultFormat); a != nil {
		t.Fatal("empty dir must disable the archive")
	}
}

func TestClipWritesWAV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audio")
	a := New(dir, capture.DefaultFormat)

	clip := a.Begin("session-1")
	in := []int16{0, 100, -100, 32767, -32768}
	clip.Write(capture.Encode(in[:2], nil))
	clip.Write(capture.Encode(in[2:], nil))

	if err := clip.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := clip.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "session-1.wav"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("invalid WAV file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dec.SampleRate != 16000 || dec.NumChans != 1 || dec.BitDepth != 16 {
		t.Fatalf("format: rate=%d chans=%d bits=%d", dec.SampleRate, dec.NumChans, dec.BitDepth)
	}
	if len(buf.Data) != len(in) {
		t.Fatalf("got %d samples, want %d", len(buf.Data), len(in))
	}
	for i := range in {
		if buf.Data[i] != int(in[i]) {
			t.Fatalf("sample %d: got %d, want %d", i, buf.Data[i], in[i])
		}
	}
}

func TestWriteAfterCloseIgnored(t *testing.T) {
	a := New(t.TempDir(), capture.DefaultFormat)
	clip := a.Begin("x")
	if err := clip.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	clip.Write(capture.Encode([]int16{1, 2}, nil))
	if clip.samples != nil {
		t.Fatal("samples must not grow after close")
	}
}
