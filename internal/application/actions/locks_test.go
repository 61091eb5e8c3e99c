package actions_test

import (
	"sync"
	"testing"
	"time"

	"burnrate/internal/application/actions"
)

func TestKeyedLocks_SerializesSameKey(t *testing.T) {
	locks := actions.NewKeyedLocks()

	release := locks.Acquire([]string{"player:pl-1"})

	acquired := make(chan struct{})
	go func() {
		r := locks.Acquire([]string{"player:pl-1"})
		close(acquired)
		r()
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire should block while the key is held")
	case <-time.After(20 * time.Millisecond):
	}

	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second acquire never completed after release")
	}
}

func TestKeyedLocks_DisjointKeysDoNotBlock(t *testing.T) {
	locks := actions.NewKeyedLocks()

	r1 := locks.Acquire([]string{"zone:zn-1"})
	defer r1()

	done := make(chan struct{})
	go func() {
		r2 := locks.Acquire([]string{"zone:zn-2"})
		r2()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disjoint key acquire blocked")
	}
}

func TestKeyedLocks_OrderingPreventsDeadlock(t *testing.T) {
	locks := actions.NewKeyedLocks()

	// Two workers lock the same pair in opposite declaration order;
	// sorted acquisition makes the interleaving deadlock-free.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			release := locks.Acquire([]string{"player:a", "player:b"})
			release()
		}()
		go func() {
			defer wg.Done()
			release := locks.Acquire([]string{"player:b", "player:a"})
			release()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("lock ordering deadlocked")
	}
}

func TestKeyedLocks_DeduplicatesAndSkipsEmptyKeys(t *testing.T) {
	locks := actions.NewKeyedLocks()

	// A repeated key must not self-deadlock.
	release := locks.Acquire([]string{"player:a", "", "player:a"})
	release()

	// And the key must be free afterwards.
	release = locks.Acquire([]string{"player:a"})
	release()
}

func TestWorldGate_ActionsShareTickExcludes(t *testing.T) {
	gate := actions.NewWorldGate()

	gate.EnterAction()
	gate.EnterAction() // two concurrent actions coexist
	gate.LeaveAction()

	tickEntered := make(chan struct{})
	go func() {
		gate.EnterTick()
		close(tickEntered)
		gate.LeaveTick()
	}()

	select {
	case <-tickEntered:
		t.Fatal("tick entered while an action held the gate")
	case <-time.After(20 * time.Millisecond):
	}

	gate.LeaveAction()

	select {
	case <-tickEntered:
	case <-time.After(time.Second):
		t.Fatal("tick never entered after actions left")
	}
}
