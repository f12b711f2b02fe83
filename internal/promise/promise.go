// Package promise supplies the one-shot completion handle the pending
// stream-write engine calls succeed/fail on. The engine only depends on
// the network.Handle interface; this is the concrete implementation
// used by the rest of this module and by tests.
package promise

import (
	"sync"

	"github.com/Amonhen/swift-nio/internal/network"
)

// OneShot is a completion handle that fires exactly once, synchronously,
// with either success or a failure error. Additional handles can be
// cascaded onto it so they fire with the same outcome.
type OneShot struct {
	mu       sync.Mutex
	fired    bool
	err      error
	children []network.Handle
	onFire   func(err error)
}

// New returns an unfired handle. onFire, if non-nil, is invoked exactly
// once when the handle fires, with nil for success.
func New(onFire func(err error)) *OneShot {
	return &OneShot{onFire: onFire}
}

// Succeed fires the handle successfully. A second call is a no-op.
func (p *OneShot) Succeed() {
	p.fire(nil)
}

// Fail fires the handle with err. A second call is a no-op.
func (p *OneShot) Fail(err error) {
	p.fire(err)
}

// Cascade arranges for child to fire with the same outcome as p once p
// fires. If p has already fired, child fires immediately.
func (p *OneShot) Cascade(child network.Handle) {
	p.mu.Lock()
	if p.fired {
		err := p.err
		p.mu.Unlock()
		if err != nil {
			child.Fail(err)
		} else {
			child.Succeed()
		}
		return
	}
	p.children = append(p.children, child)
	p.mu.Unlock()
}

func (p *OneShot) fire(err error) {
	p.mu.Lock()
	if p.fired {
		p.mu.Unlock()
		return
	}
	p.fired = true
	p.err = err
	children := p.children
	p.children = nil
	cb := p.onFire
	p.mu.Unlock()

	if cb != nil {
		cb(err)
	}
	for _, c := range children {
		if err != nil {
			c.Fail(err)
		} else {
			c.Succeed()
		}
	}
}
