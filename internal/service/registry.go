package service

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/model"
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/pms"
)

// Bridge bundles the engine components built for one location. Every
// piece is an injected instance scoped to the location; nothing in this
// package is module-level state.
type Bridge struct {
	Gateway      Gateway
	Catalog      *Catalog
	Availability *Availability
	Orchestrator *Orchestrator
	Working      *WorkingAreaCache
}

// NewBridge assembles a bridge around a gateway. Exported so tests can
// assemble one around a fake gateway.
func NewBridge(gw Gateway, agentID, propertyID int, snapshotPath string) *Bridge {
	catalog := NewCatalog(gw, propertyID, snapshotPath)
	working := NewWorkingAreaCache()
	resolver := NewCandidateResolver(gw, catalog)
	return &Bridge{
		Gateway:      gw,
		Catalog:      catalog,
		Availability: NewAvailability(gw, catalog, agentID),
		Orchestrator: NewOrchestrator(gw, catalog, resolver, working, agentID, nil),
		Working:      working,
	}
}

// Registry hands out one Bridge per location, building it lazily on
// first use. Bridges are retained so the catalog and working-area
// caches survive across requests for the same location.
type Registry struct {
	baseURL     string
	snapshotDir string

	mu      sync.Mutex
	bridges map[string]*Bridge
}

// NewRegistry creates a registry. snapshotDir may be empty to disable
// catalog snapshots.
func NewRegistry(baseURL, snapshotDir string) *Registry {
	return &Registry{baseURL: baseURL, snapshotDir: snapshotDir, bridges: map[string]*Bridge{}}
}

// For returns the bridge for the instance's location, creating it if
// this is the first request for that location since startup.
func (r *Registry) For(inst *model.Instance) *Bridge {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bridges[inst.LocationID]; ok {
		return b
	}
	gw := pms.NewClient(r.baseURL, pms.Credentials{
		AgentID:        inst.AgentID,
		AgentPassword:  inst.AgentPassword,
		ClientID:       inst.ClientID,
		ClientPassword: inst.ClientPassword,
		UseTrainingDB:  inst.UseTraining,
	})
	snapshot := ""
	if r.snapshotDir != "" {
		snapshot = filepath.Join(r.snapshotDir, fmt.Sprintf("catalog-%s.json", inst.LocationID))
	}
	b := NewBridge(gw, inst.AgentID, inst.PropertyID, snapshot)
	r.bridges[inst.LocationID] = b
	return b
}
