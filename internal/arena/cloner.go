package arena

import (
	"sync"

	"github.com/DeusData/modlint/internal/diag"
)

// Cloner is the one sanctioned cross-thread path into an Arena: retaining a
// diagnostic past the lifetime of the worker arena that produced it requires
// deep-copying it into a differently-owned arena, and that copy is guarded
// by a mutex held only for the duration of the copy.
type Cloner struct {
	mu    sync.Mutex
	arena *Arena
}

// NewCloner wraps a caller-owned arena for synchronized cloning.
func NewCloner(a *Arena) *Cloner {
	return &Cloner{arena: a}
}

// CloneDiagnostic deep-copies d so that none of its strings alias memory
// owned by the producing task's arena.
func (c *Cloner) CloneDiagnostic(d diag.Diagnostic) diag.Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := d
	out.Path = c.arena.String(d.Path)
	out.Rule = c.arena.String(d.Rule)
	out.Message = c.arena.String(d.Message)
	if d.Fix != nil {
		fix := *d.Fix
		fix.Replacement = c.arena.String(d.Fix.Replacement)
		out.Fix = &fix
	}
	return out
}
