package profile

import "testing"

func TestNew(t *testing.T) {
	p := New(WithMode("cpu"), WithPath("/tmp/prof"), nil, WithQuiet(true))

	if p != (Profiler{Mode: "cpu", Path: "/tmp/prof", Quiet: true}) {
		t.Errorf("New() = %+v", p)
	}
}

func TestStartWithoutMode(t *testing.T) {
	s := New(WithPath(t.TempDir())).Start()
	if _, ok := s.(ignore); !ok {
		t.Errorf("Start() = %T, want no-op", s)
	}

	s.Stop()
}
