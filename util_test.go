package metaspline

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

// bufferLogger returns a logger that writes to the returned buffer.
func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func scalarValues(c *Curve[Scalar]) []float64 {
	out := make([]float64, len(c.Points))
	for i, pt := range c.Points {
		out[i] = float64(pt.Value)
	}
	return out
}

func curveKeys[V value[V]](c *Curve[V]) []float64 {
	out := make([]float64, len(c.Points))
	for i, pt := range c.Points {
		out[i] = pt.InputKey
	}
	return out
}

// checkAligned verifies that every curve has exactly NumPoints points.
func checkAligned(t *testing.T, s *Store) {
	t.Helper()
	for name, c := range s.curves() {
		if c.Len() != s.NumPoints() {
			t.Errorf("curve %q has %d points, store has %d", name, c.Len(), s.NumPoints())
		}
	}
	if got := len(s.scalars) + len(s.vectors); got != s.NumCurves() {
		t.Errorf("store has %d curves but %d names", got, s.NumCurves())
	}
}

// checkNumbered verifies that every point's key equals its index.
func checkNumbered(t *testing.T, s *Store) {
	t.Helper()
	for name, c := range s.scalars {
		for i, pt := range c.Points {
			if pt.InputKey != float64(i) {
				t.Errorf("curve %q: point %d has key %v", name, i, pt.InputKey)
			}
		}
	}
	for name, c := range s.vectors {
		for i, pt := range c.Points {
			if pt.InputKey != float64(i) {
				t.Errorf("curve %q: point %d has key %v", name, i, pt.InputKey)
			}
		}
	}
}
