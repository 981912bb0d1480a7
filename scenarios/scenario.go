// Package scenarios declares the small interface every worked example
// implements, so cmd/reachdemo and the test suite can run any of them
// uniformly. The idiom is kept from the teacher's ModelSpec (one small
// interface, one package per concrete domain feeding a generic engine);
// the content is the logistics planning domain from spec.md §8 rather
// than the teacher's queueing/order-tracking models.
package scenarios

import (
	"github.com/mypop/reachability/internal/domain"
	"github.com/mypop/reachability/internal/dtg"
)

// Scenario is a self-contained reachability problem instance: a DTG, its
// term universe, and an initial state to analyze.
type Scenario interface {
	Name() string
	Build() (*dtg.Graph, *domain.TermManager, []domain.BoundedFact, error)
}
