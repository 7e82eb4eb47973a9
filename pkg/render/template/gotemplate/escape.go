package gotemplate

import (
	"sync"

	"github.com/flosch/pongo2/v6"
)

// pongo2 reads its autoescape flag from a package variable when an execution
// starts. escapeGate owns that variable for every Engine: executions that share
// a mode run together and a different mode waits until they drain.
type escapeGate struct {
	mu     sync.Mutex
	idle   *sync.Cond
	mode   bool
	active int
}

var autoescapeGate = newEscapeGate()

func newEscapeGate() *escapeGate {
	g := &escapeGate{}
	g.idle = sync.NewCond(&g.mu)
	return g
}

func (g *escapeGate) enter(mode bool) {
	g.mu.Lock()
	for g.active > 0 && g.mode != mode {
		g.idle.Wait()
	}
	if g.active == 0 {
		g.mode = mode
		pongo2.SetAutoescape(mode)
	}
	g.active++
	g.mu.Unlock()
}

func (g *escapeGate) leave() {
	g.mu.Lock()
	g.active--
	if g.active == 0 {
		g.idle.Broadcast()
	}
	g.mu.Unlock()
}
