package gesture

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type observation struct {
	Emitted string
	IsNew   bool
}

func TestSession_Observe(t *testing.T) {
	t.Run("repeat is not new", func(t *testing.T) {
		s := NewSession()

		got := []observation{}
		for _, l := range []Label{Hello, Hello} {
			emitted, isNew := s.Observe(l)
			got = append(got, observation{emitted, isNew})
		}

		want := []observation{{"hello", true}, {"hello", false}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("observations mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("sequence", func(t *testing.T) {
		s := NewSession()

		got := []observation{}
		for _, l := range []Label{Hello, Yes, Yes, Unknown} {
			emitted, isNew := s.Observe(l)
			got = append(got, observation{emitted, isNew})
		}

		want := []observation{
			{"hello", true},
			{"yes", true},
			{"yes", false},
			{"yes", false},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("observations mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown before any gesture", func(t *testing.T) {
		s := NewSession()

		emitted, isNew := s.Observe(Unknown)
		if emitted != NoGesture || isNew {
			t.Errorf("Observe(unknown) = (%q, %v), want (%q, false)", emitted, isNew, NoGesture)
		}
		if s.Last() != "" {
			t.Errorf("unknown mutated state: last = %q", s.Last())
		}
	})

	t.Run("unknown never mutates state", func(t *testing.T) {
		s := NewSession()
		s.Observe(ThankYou)

		for i := 0; i < 3; i++ {
			emitted, isNew := s.Observe(Unknown)
			if emitted != "thank you" || isNew {
				t.Errorf("Observe(unknown) = (%q, %v), want (\"thank you\", false)", emitted, isNew)
			}
		}

		// Same label after unknowns is still a repeat.
		if _, isNew := s.Observe(ThankYou); isNew {
			t.Error("expected repeat after unknown to not be new")
		}
	})

	t.Run("returning to an earlier label is new", func(t *testing.T) {
		s := NewSession()
		s.Observe(Hello)
		s.Observe(No)

		if _, isNew := s.Observe(Hello); !isNew {
			t.Error("expected hello after no to be new")
		}
	})
}

func TestSession_Reset(t *testing.T) {
	s := NewSession()
	s.Observe(Please)
	s.Reset()

	if s.Display() != NoGesture {
		t.Errorf("Display() = %q after reset, want %q", s.Display(), NoGesture)
	}
	if _, isNew := s.Observe(Please); !isNew {
		t.Error("expected first gesture after reset to be new")
	}
}

func TestSession_Independent(t *testing.T) {
	a := NewSession()
	b := NewSession()

	a.Observe(Sorry)

	if b.Last() != "" {
		t.Errorf("sessions share state: b.Last() = %q", b.Last())
	}
	if a.ID() == b.ID() {
		t.Error("expected distinct session IDs")
	}
}

func TestSession_ConcurrentObserve(t *testing.T) {
	s := NewSession()

	var wg sync.WaitGroup
	var mu sync.Mutex
	announced := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, isNew := s.Observe(GoodJob); isNew {
				mu.Lock()
				announced++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if announced != 1 {
		t.Errorf("expected exactly one announcement, got %d", announced)
	}
}
