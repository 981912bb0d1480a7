package reachability

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/mypop/reachability/internal/domain"
	"github.com/mypop/reachability/scenarios/logistics"
)

func TestTwoPackagesOneTruck(t *testing.T) {
	s := logistics.NewTwoPackagesOneTruck()
	graph, terms, initial, err := s.Build()
	require.NoError(t, err)

	engine, err := New(graph, terms)
	require.NoError(t, err)
	report, err := engine.Analyze(initial)
	require.NoError(t, err)

	p1, ok := terms.ObjectByName("p1")
	require.True(t, ok)
	p2, ok := terms.ObjectByName("p2")
	require.True(t, ok)

	require.Equal(t, report.EOGOf(p1), report.EOGOf(p2), "p1 and p2 must merge into one equivalence class")
	require.True(t, report.HasReachableFact("at", "p1", "l2"))
	require.True(t, report.HasReachableFact("at", "p2", "l2"))
	require.True(t, report.HasReachableFact("in", "p1", "t"))
	require.True(t, report.HasReachableFact("in", "p2", "t"))
	require.Equal(t, 4, report.NumEquivalenceClasses())
}

func TestAsymmetricInitialStateBlocksMerge(t *testing.T) {
	s := logistics.NewAsymmetricInitialState()
	graph, terms, initial, err := s.Build()
	require.NoError(t, err)

	engine, err := New(graph, terms)
	require.NoError(t, err)
	report, err := engine.Analyze(initial)
	require.NoError(t, err)

	p1, _ := terms.ObjectByName("p1")
	p2, _ := terms.ObjectByName("p2")
	require.NotEqual(t, report.EOGOf(p1), report.EOGOf(p2))
}

func TestExternalDependencyCarry(t *testing.T) {
	s := logistics.NewExternalDependencyCarry()
	graph, terms, initial, err := s.Build()
	require.NoError(t, err)

	engine, err := New(graph, terms)
	require.NoError(t, err)
	report, err := engine.Analyze(initial)
	require.NoError(t, err)

	require.True(t, report.HasReachableFact("at", "p", "l1"))
	require.True(t, report.HasReachableFact("at", "p", "l2"))
	require.True(t, report.HasReachableFact("at", "p", "l3"))
}

func TestFingerprintMismatchPreventsMerge(t *testing.T) {
	s := logistics.NewFingerprintMismatch()
	graph, terms, initial, err := s.Build()
	require.NoError(t, err)

	engine, err := New(graph, terms)
	require.NoError(t, err)
	report, err := engine.Analyze(initial)
	require.NoError(t, err)

	truck, _ := terms.ObjectByName("t2")
	pkg, _ := terms.ObjectByName("p3")
	require.NotEqual(t, report.EOGOf(truck), report.EOGOf(pkg),
		"truck and package start with equivalent initial facts but must not merge across a fingerprint mismatch")
}

func TestIdempotentReanalysis(t *testing.T) {
	s := logistics.NewTwoPackagesOneTruck()

	graph1, terms1, initial1, err := s.Build()
	require.NoError(t, err)
	engine1, err := New(graph1, terms1)
	require.NoError(t, err)
	report1, err := engine1.Analyze(initial1)
	require.NoError(t, err)

	graph2, terms2, initial2, err := s.Build()
	require.NoError(t, err)
	engine2, err := New(graph2, terms2)
	require.NoError(t, err)
	report2, err := engine2.Analyze(initial2)
	require.NoError(t, err)

	if diff := cmp.Diff(report1.FactSignatures(), report2.FactSignatures()); diff != "" {
		t.Fatalf("re-analysis of the same inputs produced a different fact set:\n%s", diff)
	}
	require.Equal(t, report1.NumEquivalenceClasses(), report2.NumEquivalenceClasses())
}

func TestHistoricalMembershipBeforeMerge(t *testing.T) {
	s := logistics.NewTwoPackagesOneTruck()
	graph, terms, initial, err := s.Build()
	require.NoError(t, err)
	engine, err := New(graph, terms)
	require.NoError(t, err)
	report, err := engine.Analyze(initial)
	require.NoError(t, err)

	p1, _ := terms.ObjectByName("p1")
	eog := report.EOGOf(p1)

	mergeIteration := -1
	for k := 0; k <= report.Iterations(); k++ {
		members := report.EOGMembership(eog, k)
		if containsName(members, "p2") {
			mergeIteration = k
			break
		}
	}
	require.NotEqual(t, -1, mergeIteration, "expected p1 and p2 to merge within the analyzed iterations")
	require.Greater(t, mergeIteration, 0)

	before := report.EOGMembership(eog, mergeIteration-1)
	require.Len(t, before, 1)
	require.Equal(t, "p1", before[0].Name())
}

func containsName(members []domain.Object, name string) bool {
	for _, m := range members {
		if m.Name() == name {
			return true
		}
	}
	return false
}
