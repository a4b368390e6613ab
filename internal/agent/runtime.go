package agent

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/Rrens/notebooklm/internal/domain"
)

// Runtime is the named registry of teams served by this process
type Runtime struct {
	Name  string
	ID    string
	teams map[string]Runner
}

// NewRuntime creates a runtime serving the given runners
func NewRuntime(name, id string, runners ...Runner) *Runtime {
	rt := &Runtime{
		Name:  name,
		ID:    id,
		teams: make(map[string]Runner, len(runners)),
	}
	for _, r := range runners {
		rt.teams[r.Team().ID] = r
	}
	return rt
}

// GetTeam resolves a team by id
func (rt *Runtime) GetTeam(id string) (Runner, error) {
	r, ok := rt.teams[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTeamNotFound, id)
	}
	return r, nil
}

// Teams returns the ids of all registered teams, sorted
func (rt *Runtime) Teams() []string {
	ids := make([]string, 0, len(rt.teams))
	for id := range rt.teams {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var ErrAlreadyInitialized = errors.New("agent runtime already initialized")

// Handle is a reference to the Runtime that is assigned once, after the HTTP
// surface has been built, and is read-only afterwards
type Handle struct {
	rt atomic.Pointer[Runtime]
}

// Set assigns the runtime. Only the first call succeeds.
func (h *Handle) Set(rt *Runtime) error {
	if rt == nil {
		return errors.New("agent runtime is nil")
	}
	if !h.rt.CompareAndSwap(nil, rt) {
		return ErrAlreadyInitialized
	}
	return nil
}

// Get returns the runtime or domain.ErrAgentNotReady when it is not set yet
func (h *Handle) Get() (*Runtime, error) {
	rt := h.rt.Load()
	if rt == nil {
		return nil, domain.ErrAgentNotReady
	}
	return rt, nil
}

// Ready reports whether the runtime has been assigned
func (h *Handle) Ready() bool {
	return h.rt.Load() != nil
}
