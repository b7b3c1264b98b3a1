package session

import (
	"sync"
	"testing"
	"time"
)

func TestGetCreatesIdleSession(t *testing.T) {
	store := NewStore()

	st := store.Get(42)
	if st.SelectedDate != "" || st.SelectedSession != "" {
		t.Errorf("fresh session should be idle, got %+v", st)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 session, got %d", store.Len())
	}
}

func TestSetSessionRequiresDate(t *testing.T) {
	store := NewStore()

	if store.SetSession(1, "14:00") {
		t.Error("SetSession without a date should be refused")
	}
	st := store.Get(1)
	if st.SelectedSession != "" {
		t.Errorf("session stored without a date: %+v", st)
	}

	store.SetDate(1, "01.01.2030")
	if !store.SetSession(1, "14:00") {
		t.Error("SetSession with a date should succeed")
	}
	st = store.Get(1)
	if st.SelectedDate != "01.01.2030" || st.SelectedSession != "14:00" {
		t.Errorf("unexpected session state: %+v", st)
	}
}

func TestSetDateClearsSelectedSession(t *testing.T) {
	store := NewStore()
	store.SetDate(1, "01.01.2030")
	store.SetSession(1, "14:00")

	store.SetDate(1, "02.01.2030")
	st := store.Get(1)
	if st.SelectedSession != "" {
		t.Error("changing date should drop the selected session")
	}
	if st.SelectedDate != "02.01.2030" {
		t.Errorf("expected new date, got %q", st.SelectedDate)
	}
}

// The date/session invariant must hold across any transition sequence.
func TestInvariantUnderTransitionSequences(t *testing.T) {
	store := NewStore()
	ops := []func(){
		func() { store.SetDate(7, "01.01.2030") },
		func() { store.SetSession(7, "10:00") },
		func() { store.Clear(7) },
		func() { store.SetSession(7, "11:00") },
		func() { store.SetDate(7, "02.01.2030") },
		func() { store.SetSession(7, "12:00") },
		func() { store.Clear(7) },
		func() { store.SetSession(7, "13:00") },
	}

	for i, op := range ops {
		op()
		st := store.Get(7)
		if st.SelectedSession != "" && st.SelectedDate == "" {
			t.Fatalf("invariant violated after op %d: %+v", i, st)
		}
	}
}

func TestClearResetsToIdle(t *testing.T) {
	store := NewStore()
	store.SetDate(1, "01.01.2030")
	store.SetSession(1, "14:00")

	store.Clear(1)
	st := store.Get(1)
	if st.SelectedDate != "" || st.SelectedSession != "" {
		t.Errorf("expected idle session after Clear, got %+v", st)
	}
}

func TestActiveWithin(t *testing.T) {
	store := NewStore()
	store.Touch(1)
	store.Touch(2)

	if got := store.ActiveWithin(time.Minute); got != 2 {
		t.Errorf("expected 2 active users, got %d", got)
	}
	if got := store.ActiveWithin(-time.Minute); got != 0 {
		t.Errorf("expected 0 active users for negative window, got %d", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			store.SetDate(id, "01.01.2030")
			store.SetSession(id, "14:00")
			store.Touch(id)
			_ = store.Get(id)
			_ = store.ActiveWithin(time.Minute)
		}(int64(i % 5))
	}
	wg.Wait()

	for id := int64(0); id < 5; id++ {
		st := store.Get(id)
		if st.SelectedSession != "" && st.SelectedDate == "" {
			t.Fatalf("invariant violated for user %d: %+v", id, st)
		}
	}
}
