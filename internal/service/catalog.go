package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/pms"
)

// catalogTTL bounds how long category, rate-plan and area metadata is
// trusted before it is refetched from the upstream.
const catalogTTL = 24 * time.Hour

// Catalog caches slow-moving upstream metadata (property id, categories,
// rate plans per category, the full area listing). It is an injected
// component instance, one per location, guarded by a mutex; it is not
// process-global state. An optional JSON snapshot file lets a restarted
// process skip the initial fetch burst. Staleness rules hold regardless
// of the snapshot: entries older than catalogTTL are refetched.
type Catalog struct {
	gw           Gateway
	now          func() time.Time
	snapshotPath string

	mu         sync.Mutex
	propertyID int
	categories catalogEntry[[]pms.Category]
	rates      map[int]catalogEntry[[]pms.RatePlan]
	areas      catalogEntry[[]pms.Area]
}

type catalogEntry[T any] struct {
	Data      T         `json:"data"`
	FetchedAt time.Time `json:"fetched_at"`
}

func (e catalogEntry[T]) fresh(now time.Time) bool {
	return !e.FetchedAt.IsZero() && now.Sub(e.FetchedAt) < catalogTTL
}

// NewCatalog builds a catalog for one location. propertyID may be zero,
// in which case the first property returned by the upstream is adopted
// on first use. snapshotPath may be empty to disable persistence.
func NewCatalog(gw Gateway, propertyID int, snapshotPath string) *Catalog {
	c := &Catalog{
		gw:           gw,
		now:          time.Now,
		snapshotPath: snapshotPath,
		propertyID:   propertyID,
		rates:        map[int]catalogEntry[[]pms.RatePlan]{},
	}
	c.loadSnapshot()
	return c
}

// PropertyID resolves the upstream property id, fetching the property
// list once when the instance row did not pin one.
func (c *Catalog) PropertyID(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.propertyID != 0 {
		return c.propertyID, nil
	}
	props, err := c.gw.ListProperties(ctx)
	if err != nil {
		return 0, fmt.Errorf("resolve property: %w", err)
	}
	if len(props) == 0 {
		return 0, fmt.Errorf("resolve property: upstream returned no properties")
	}
	c.propertyID = props[0].ID
	c.saveSnapshotLocked()
	return c.propertyID, nil
}

// Categories returns all categories for the property, from cache when
// fresh.
func (c *Catalog) Categories(ctx context.Context) ([]pms.Category, error) {
	propertyID, err := c.PropertyID(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.categories.fresh(c.now()) {
		return c.categories.Data, nil
	}
	cats, err := c.gw.ListCategories(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	c.categories = catalogEntry[[]pms.Category]{Data: cats, FetchedAt: c.now()}
	c.saveSnapshotLocked()
	return cats, nil
}

// CategoriesByKeyword filters categories by case-insensitive substring
// match on the name. A keyword that matches nothing falls back to the
// full set so a misheard room name never empties the search.
func (c *Catalog) CategoriesByKeyword(ctx context.Context, keyword string) ([]pms.Category, error) {
	cats, err := c.Categories(ctx)
	if err != nil {
		return nil, err
	}
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return cats, nil
	}
	var matched []pms.Category
	for _, cat := range cats {
		if strings.Contains(strings.ToLower(cat.Name), kw) {
			matched = append(matched, cat)
		}
	}
	if len(matched) == 0 {
		log.Printf("catalog: no categories matched %q, falling back to all %d categories", keyword, len(cats))
		return cats, nil
	}
	return matched, nil
}

// RatePlans returns the rate plans for one category, from cache when
// fresh.
func (c *Catalog) RatePlans(ctx context.Context, categoryID int) ([]pms.RatePlan, error) {
	c.mu.Lock()
	if entry, ok := c.rates[categoryID]; ok && entry.fresh(c.now()) {
		c.mu.Unlock()
		return entry.Data, nil
	}
	c.mu.Unlock()

	plans, err := c.gw.ListRatePlans(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.rates[categoryID] = catalogEntry[[]pms.RatePlan]{Data: plans, FetchedAt: c.now()}
	c.saveSnapshotLocked()
	c.mu.Unlock()
	return plans, nil
}

// AreasForCategory returns every unit of one category from the cached
// area listing. This is the heuristic data source: the housekeeping
// status on each area may be hours stale.
func (c *Catalog) AreasForCategory(ctx context.Context, categoryID int) ([]pms.Area, error) {
	propertyID, err := c.PropertyID(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.areas.fresh(c.now()) {
		areas, err := c.gw.ListAreas(ctx, propertyID)
		if err != nil {
			return nil, err
		}
		c.areas = catalogEntry[[]pms.Area]{Data: areas, FetchedAt: c.now()}
		c.saveSnapshotLocked()
	}
	var out []pms.Area
	for _, a := range c.areas.Data {
		if a.CategoryID == categoryID {
			out = append(out, a)
		}
	}
	return out, nil
}

// catalogSnapshot is the on-disk shape of the cache.
type catalogSnapshot struct {
	PropertyID int                                  `json:"property_id"`
	Categories catalogEntry[[]pms.Category]         `json:"categories"`
	Rates      map[int]catalogEntry[[]pms.RatePlan] `json:"rates"`
	Areas      catalogEntry[[]pms.Area]             `json:"areas"`
}

func (c *Catalog) loadSnapshot() {
	if c.snapshotPath == "" {
		return
	}
	raw, err := os.ReadFile(c.snapshotPath)
	if err != nil {
		return
	}
	var snap catalogSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		log.Printf("catalog: discarding unreadable snapshot %s: %v", c.snapshotPath, err)
		return
	}
	if c.propertyID == 0 {
		c.propertyID = snap.PropertyID
	}
	c.categories = snap.Categories
	c.areas = snap.Areas
	if snap.Rates != nil {
		c.rates = snap.Rates
	}
}

func (c *Catalog) saveSnapshotLocked() {
	if c.snapshotPath == "" {
		return
	}
	snap := catalogSnapshot{
		PropertyID: c.propertyID,
		Categories: c.categories,
		Rates:      c.rates,
		Areas:      c.areas,
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		log.Printf("catalog: marshal snapshot: %v", err)
		return
	}
	if err := os.WriteFile(c.snapshotPath, raw, 0o644); err != nil {
		log.Printf("catalog: write snapshot %s: %v", c.snapshotPath, err)
	}
}
