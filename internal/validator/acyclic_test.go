package validator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/playbookgrid/internal/ids"
	"github.com/vk/playbookgrid/internal/playbook"
)

func steps(edges map[string][]string, order ...string) []playbook.StepTemplate {
	out := make([]playbook.StepTemplate, 0, len(order))
	for _, id := range order {
		step := playbook.StepTemplate{ID: ids.StepID(id), Kind: playbook.KindAssess}
		for _, dep := range edges[id] {
			step.DependsOn = append(step.DependsOn, ids.StepID(dep))
		}
		out = append(out, step)
	}
	return out
}

func TestEnsureAcyclic(t *testing.T) {
	t.Run("empty step list has no cycles", func(t *testing.T) {
		assert.NoError(t, EnsureAcyclic(nil))
	})

	t.Run("steps without dependencies have no cycles", func(t *testing.T) {
		assert.NoError(t, EnsureAcyclic(steps(nil, "a", "b", "c")))
	})

	t.Run("valid dag has no cycles", func(t *testing.T) {
		edges := map[string][]string{"b": {"a"}, "c": {"a", "b"}, "d": {"c"}}
		assert.NoError(t, EnsureAcyclic(steps(edges, "d", "c", "b", "a")))
	})

	t.Run("diamond has no cycles", func(t *testing.T) {
		edges := map[string][]string{"b": {"a"}, "c": {"a"}, "d": {"b", "c"}}
		assert.NoError(t, EnsureAcyclic(steps(edges, "a", "b", "c", "d")))
	})

	t.Run("simple direct cycle is detected", func(t *testing.T) {
		edges := map[string][]string{"a": {"b"}, "b": {"a"}}
		err := EnsureAcyclic(steps(edges, "a", "b"))
		require.Error(t, err)
		var cycleErr *CycleError
		require.True(t, errors.As(err, &cycleErr))
		assert.Equal(t, ids.StepID("a"), cycleErr.Step)
		assert.ErrorContains(t, err, "cycle detected involving step 'a'")
	})

	t.Run("longer cycle names a step on the cycle", func(t *testing.T) {
		edges := map[string][]string{"a": {"b"}, "b": {"c"}, "c": {"d"}, "d": {"b"}}
		err := EnsureAcyclic(steps(edges, "a", "b", "c", "d"))
		var cycleErr *CycleError
		require.True(t, errors.As(err, &cycleErr))
		assert.Contains(t, []ids.StepID{"b", "c", "d"}, cycleErr.Step)
		assert.NotEqual(t, ids.StepID("a"), cycleErr.Step, "a leads into the cycle but is not on it")
	})

	t.Run("cycle in a disjoint component is detected", func(t *testing.T) {
		edges := map[string][]string{"b": {"a"}, "y": {"x", "z"}, "z": {"y"}}
		err := EnsureAcyclic(steps(edges, "a", "b", "x", "y", "z"))
		assert.ErrorIs(t, err, ErrCycle)
	})

	t.Run("unknown dependencies are ignored", func(t *testing.T) {
		edges := map[string][]string{"a": {"ghost"}}
		assert.NoError(t, EnsureAcyclic(steps(edges, "a")))
	})
}

func TestEnsureAcyclic_DeepChainDoesNotRecurse(t *testing.T) {
	const depth = 100000
	edges := make(map[string][]string, depth)
	order := make([]string, depth)
	for i := 0; i < depth; i++ {
		id := fmt.Sprintf("s%d", i)
		order[i] = id
		if i > 0 {
			edges[id] = []string{fmt.Sprintf("s%d", i-1)}
		}
	}
	// Visit the tail first so the traversal has to walk the whole chain.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	assert.NoError(t, EnsureAcyclic(steps(edges, order...)))
}
