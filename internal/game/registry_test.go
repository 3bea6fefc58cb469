package game

import (
	"errors"
	"sync"
	"testing"
)

func registrySession() *Session {
	return NewSession(NewPlayer(1, "tester", "Tester", ""), &fakeArticles{summary: testSummary}, newFakeScores(), testSettings())
}

func TestRegistryRegisterLookup(t *testing.T) {
	reg := NewRegistry()
	s := registrySession()

	if err := reg.Register(1, s); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if reg.Count() != 1 {
		t.Errorf("Count = %d, want 1", reg.Count())
	}

	got, ok := reg.Lookup(1)
	if !ok || got != s {
		t.Error("Lookup did not return the registered session")
	}

	if _, ok := reg.Lookup(2); ok {
		t.Error("Lookup found a session for an unknown player")
	}
}

func TestRegistryRegisterTwice(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(1, registrySession()); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if err := reg.Register(1, registrySession()); !errors.Is(err, ErrAlreadyInGame) {
		t.Errorf("second Register error = %v, want ErrAlreadyInGame", err)
	}
}

func TestRegistryUnregister(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(1, registrySession()); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	reg.Unregister(1)
	if _, ok := reg.Lookup(1); ok {
		t.Error("Lookup found an unregistered session")
	}

	// Unregistering twice is a no-op
	reg.Unregister(1)
	if reg.Count() != 0 {
		t.Errorf("Count = %d, want 0", reg.Count())
	}
}

func TestRegistryRelease(t *testing.T) {
	reg := NewRegistry()
	s1 := registrySession()

	if err := reg.Register(1, s1); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	// Releasing a different instance leaves the registered one alone.
	reg.Release(1, registrySession())
	if _, ok := reg.Lookup(1); !ok {
		t.Error("Release removed a session it did not match")
	}

	reg.Release(1, s1)
	if _, ok := reg.Lookup(1); ok {
		t.Error("Release left a matching session registered")
	}
}

func TestRegistryConcurrentRegister(t *testing.T) {
	reg := NewRegistry()

	const workers = 32
	var wg sync.WaitGroup
	successes := make(chan struct{}, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := reg.Register(7, registrySession()); err == nil {
				successes <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(successes)

	var won int
	for range successes {
		won++
	}
	if won != 1 {
		t.Errorf("%d concurrent Register calls won, want exactly 1", won)
	}
	if reg.Count() != 1 {
		t.Errorf("Count = %d, want 1", reg.Count())
	}
}
