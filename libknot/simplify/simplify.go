package simplify

import (
	"strings"

	"github.com/2x3systems/goknot/goknot"
	"github.com/2x3systems/goknot/libknot/diagram"
	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// Result is the outcome of Simplify.
type Result struct {
	Diagram        *diagram.Diagram // the reduced diagram
	Original       *diagram.Diagram
	Moves          int   // moves applied on the way to Diagram
	Explored       int   // R3 moves tried while searching for a reducing move
	BudgetExceeded bool  // set if the move budget ran out
	Err            error // ErrSimplificationBudgetExceeded when BudgetExceeded
}

// Terminal returns true if the diagram was reduced to the crossingless circle, which proves the unknot.
func (res *Result) Terminal() bool {
	return res.Diagram.NumCrossings() == 0
}

type simplifier struct {
	budget   int
	spent    int
	explored int
	res      *Result
}

// Simplify reduces d greedily: R1 moves first, then R2 moves, each taken in a fixed order.
// When neither applies it searches breadth-first over sequences of R3 moves for a diagram admitting one.
// Every applied or explored move is charged against budget; when it runs out the current diagram is returned
// with BudgetExceeded set.  A budget <= 0 selects goknot.DefaultMoveBudget.
func Simplify(d *diagram.Diagram, budget int) *Result {
	if budget <= 0 {
		budget = goknot.DefaultMoveBudget
	}
	s := simplifier{
		budget: budget,
		res: &Result{
			Diagram:  d,
			Original: d,
		},
	}
	s.run()

	res := s.res
	res.Explored = s.explored
	if res.BudgetExceeded {
		res.Err = errors.Wrapf(goknot.ErrSimplificationBudgetExceeded, "stopped at %d crossings after %d moves", res.Diagram.NumCrossings(), s.spent)
	}
	klog.V(2).Infof("simplify: %d -> %d crossings (%d moves, %d explored, exceeded=%v)",
		d.NumCrossings(), res.Diagram.NumCrossings(), res.Moves, res.Explored, res.BudgetExceeded)
	return res
}

func (s *simplifier) charge() bool {
	if s.spent >= s.budget {
		s.res.BudgetExceeded = true
		return false
	}
	s.spent++
	return true
}

func (s *simplifier) run() {
	for s.res.Diagram.NumCrossings() > 0 {
		cur := s.res.Diagram

		m, ok := FindR1(cur)
		if !ok {
			m, ok = FindR2(cur)
		}
		if ok {
			if !s.charge() {
				return
			}
			next, err := Apply(cur, m)
			if err != nil {
				klog.Warningf("simplify: %v failed on %v: %v", m, cur, err)
				return
			}
			klog.V(3).Infof("simplify: %v", m)
			s.res.Diagram = next
			s.res.Moves++
			continue
		}

		next, depth := s.searchR3(cur)
		if next == nil {
			return
		}
		s.res.Diagram = next
		s.res.Moves += depth
	}
}

type searchNode struct {
	d     *diagram.Diagram
	depth int
}

// searchR3 explores diagrams reachable from start by R3 moves, returning the first that admits R1 or R2.
func (s *simplifier) searchR3(start *diagram.Diagram) (*diagram.Diagram, int) {
	visited := hashset.New()
	visited.Add(CanonicalKey(start))

	queue := linkedlistqueue.New()
	queue.Enqueue(searchNode{start, 0})

	for !queue.Empty() {
		v, _ := queue.Dequeue()
		node := v.(searchNode)

		for _, m := range FindR3(node.d) {
			if !s.charge() {
				return nil, 0
			}
			s.explored++
			next, err := Apply(node.d, m)
			if err != nil {
				klog.Warningf("simplify: %v failed on %v: %v", m, node.d, err)
				continue
			}
			key := CanonicalKey(next)
			if visited.Contains(key) {
				continue
			}
			visited.Add(key)

			if _, ok := FindR1(next); ok {
				return next, node.depth + 1
			}
			if _, ok := FindR2(next); ok {
				return next, node.depth + 1
			}
			queue.Enqueue(searchNode{next, node.depth + 1})
		}
	}
	return nil, 0
}

// CanonicalKey identifies a diagram up to the choice of starting visit.
func CanonicalKey(d *diagram.Diagram) string {
	G := d.GaussCode()
	n := len(G)
	best := ""
	rotated := make(goknot.GaussCode, n)
	var buf strings.Builder
	for i := 0; i < n; i++ {
		copy(rotated, G[i:])
		copy(rotated[n-i:], G[:i])
		buf.Reset()
		diagram.Renumber(rotated).WriteAsString(&buf)
		if key := buf.String(); i == 0 || key < best {
			best = key
		}
	}
	return best
}
