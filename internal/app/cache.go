package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/vk/playbookgrid/internal/planner"
	"github.com/vk/playbookgrid/internal/playbook"
	"golang.org/x/sync/singleflight"
)

// PlanCache memoizes run-less execution plans. Planning is deterministic, so
// a plan is keyed by the blueprint id and version, the gate context
// fingerprint, the overrides fingerprint and a digest of the steps. Failed
// builds are not cached.
type PlanCache struct {
	group singleflight.Group

	mu    sync.RWMutex
	plans map[string]*playbook.ExecutionPlan
}

// NewPlanCache returns an empty cache.
func NewPlanCache() *PlanCache {
	return &PlanCache{plans: make(map[string]*playbook.ExecutionPlan)}
}

// Key returns the cache key for bp planned with overrides. Two blueprints
// that share an id and version but differ in their steps get different keys.
func (c *PlanCache) Key(bp *playbook.Blueprint, overrides *playbook.SchedulingOverrides) string {
	return fmt.Sprintf("%s@%d#%s#%s#%s",
		bp.ID,
		bp.Version,
		planner.DefaultContext(bp).Fingerprint(),
		overrides.Fingerprint(),
		stepsDigest(bp.Steps),
	)
}

// stepsDigest hashes the JSON encoding of steps. Map keys are encoded in
// sorted order, so equal steps always hash the same.
func stepsDigest(steps []playbook.StepTemplate) string {
	data, err := json.Marshal(steps)
	if err != nil {
		// StepTemplate holds only strings, numbers and string maps.
		panic(fmt.Sprintf("plan cache: encoding steps: %v", err))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// Plan returns the cached plan for bp, building it on a miss. Concurrent
// misses for the same key share one build. The returned plan has no run and
// must not be modified.
func (c *PlanCache) Plan(ctx context.Context, bp *playbook.Blueprint, overrides *playbook.SchedulingOverrides) (*playbook.ExecutionPlan, error) {
	key := c.Key(bp, overrides)

	c.mu.RLock()
	plan, ok := c.plans[key]
	c.mu.RUnlock()
	if ok {
		return plan, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		plan, err := planner.BuildExecutionPlan(ctx, bp, planner.Options{Overrides: overrides})
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.plans[key] = plan
		c.mu.Unlock()
		return plan, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*playbook.ExecutionPlan), nil
}

// Len reports the number of cached plans.
func (c *PlanCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.plans)
}
