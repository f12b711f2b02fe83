package promise

import (
	"errors"
	"testing"
)

func TestOneShotFiresOnce(t *testing.T) {
	var got error
	fired := 0
	p := New(func(err error) {
		fired++
		got = err
	})
	p.Succeed()
	p.Fail(errors.New("too late"))

	if fired != 1 {
		t.Fatalf("expected exactly one fire, got %d", fired)
	}
	if got != nil {
		t.Fatalf("expected success outcome, got %v", got)
	}
}

func TestOneShotCascadeBeforeFire(t *testing.T) {
	parent := New(nil)
	var childErr error
	childFired := false
	child := New(func(err error) {
		childFired = true
		childErr = err
	})

	parent.Cascade(child)
	if childFired {
		t.Fatalf("child should not fire before parent")
	}

	boom := errors.New("boom")
	parent.Fail(boom)

	if !childFired {
		t.Fatalf("expected child to fire once parent fires")
	}
	if childErr != boom {
		t.Fatalf("expected child to fire with parent's error, got %v", childErr)
	}
}

func TestOneShotCascadeAfterFire(t *testing.T) {
	parent := New(nil)
	parent.Succeed()

	childFired := false
	child := New(func(err error) {
		childFired = true
	})
	parent.Cascade(child)

	if !childFired {
		t.Fatalf("expected child to fire immediately when parent already fired")
	}
}
