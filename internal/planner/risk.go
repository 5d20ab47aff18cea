package planner

import (
	"github.com/vk/playbookgrid/internal/playbook"
)

// StepRisk scores a step for scheduling: lower scores run earlier.
//
//	risk = expectedLatency * kindWeight + len(actions) + len(dependsOn)
func StepRisk(step playbook.StepTemplate) float64 {
	return step.ExpectedLatencyMinutes*step.Kind.Weight() +
		float64(len(step.Actions)) +
		float64(len(step.DependsOn))
}

// kindWeights accumulates risk(step) / (index+1) per kind, in blueprint order.
func kindWeights(steps []playbook.StepTemplate) map[playbook.StepKind]float64 {
	weights := make(map[playbook.StepKind]float64, len(playbook.AllStepKinds()))
	for i, step := range steps {
		weights[step.Kind] += StepRisk(step) / float64(i+1)
	}
	return weights
}

// SeverityVector folds the per-kind weights of steps into minor, major and
// catastrophic buckets and normalizes them. When every weight is zero the
// fixed playbook.DefaultSeverityVector is returned.
func SeverityVector(steps []playbook.StepTemplate) playbook.SeverityVector {
	w := kindWeights(steps)
	v := playbook.SeverityVector{
		Minor:        w[playbook.KindAssess] + w[playbook.KindNotify],
		Major:        w[playbook.KindRestore] + w[playbook.KindVerify],
		Catastrophic: w[playbook.KindIsolate] + w[playbook.KindPostmortem],
	}
	sum := v.Sum()
	if sum == 0 {
		return playbook.DefaultSeverityVector()
	}
	return playbook.SeverityVector{
		Minor:        v.Minor / sum,
		Major:        v.Major / sum,
		Catastrophic: v.Catastrophic / sum,
	}
}
