// Package trace aggregates the traces of many chain walks into coverage
// statistics: how often each transition was taken, where walks ended,
// and a prefix tree of the walked label sequences.
package trace

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"gombt/markov"
	"gombt/tree"
)

// The key under which ObservedPercent reports stop selections. Chains
// should not label a transition with it.
const StopLabel = "stop"

// A Usage row reports how often one transition was taken across all
// collected walks, with its share of all transitions taken.
type Usage struct {
	Label string
	Count int
	Share float64
}

// A Collector aggregates walk traces.
//
// It is safe for concurrent use, so parallel test runs can add their
// traces as they finish.
type Collector[S comparable, C any] struct {
	sync.RWMutex

	walks  *tree.Tree[string]
	labels map[string]int
	finals map[S]int
	// Per state: how often each outgoing transition label was selected.
	// Stops are counted under StopLabel.
	outgoing map[S]map[string]int
	commands int
}

// NewCollector returns an empty Collector.
func NewCollector[S comparable, C any]() *Collector[S, C] {
	root := tree.New("start", func(a, b string) bool { return a == b })
	return &Collector[S, C]{
		walks:    &root,
		labels:   map[string]int{},
		finals:   map[S]int{},
		outgoing: map[S]map[string]int{},
	}
}

// AddWalk records the trace of one walk.
func (c *Collector[S, C]) AddWalk(t markov.Trace[S, C]) {
	c.Lock()
	defer c.Unlock()

	c.walks.Visit()
	node := c.walks
	for _, step := range t.Steps {
		node = node.VisitChild(step.Label)
		c.labels[step.Label]++
		c.count(step.From, step.Label)
		c.commands++
	}
	c.finals[t.Final]++
	if t.Stopped {
		c.count(t.Final, StopLabel)
	}
}

func (c *Collector[S, C]) count(state S, label string) {
	out, ok := c.outgoing[state]
	if !ok {
		out = map[string]int{}
		c.outgoing[state] = out
	}
	out[label]++
}

// Walks returns the number of collected traces.
func (c *Collector[S, C]) Walks() int {
	c.RLock()
	defer c.RUnlock()
	return c.walks.Visits()
}

// Commands returns the total number of transitions across all collected
// traces.
func (c *Collector[S, C]) Commands() int {
	c.RLock()
	defer c.RUnlock()
	return c.commands
}

// Seen reports whether the transition label was taken in any collected
// trace.
func (c *Collector[S, C]) Seen(label string) bool {
	c.RLock()
	defer c.RUnlock()
	return c.labels[label] > 0
}

// Finals returns how many walks ended in each state.
func (c *Collector[S, C]) Finals() map[S]int {
	c.RLock()
	defer c.RUnlock()
	return maps.Clone(c.finals)
}

// ObservedPercent returns how the walks distributed over the alternatives
// of one state, scaled to percent. Stop selections are reported under
// StopLabel. Comparing the result against the declared weights of the
// state shows how faithfully the walks sampled the chain.
//
// Returns nil if no walk made a choice in the state.
func (c *Collector[S, C]) ObservedPercent(state S) map[string]float64 {
	c.RLock()
	defer c.RUnlock()

	out, ok := c.outgoing[state]
	if !ok {
		return nil
	}
	total := 0
	for _, count := range out {
		total += count
	}

	percent := make(map[string]float64, len(out))
	for label, count := range out {
		percent[label] = 100 * float64(count) / float64(total)
	}
	return percent
}

// Usage returns one row per transition label, most taken first. Labels
// with equal counts are ordered alphabetically.
func (c *Collector[S, C]) Usage() []Usage {
	c.RLock()
	defer c.RUnlock()

	rows := make([]Usage, 0, len(c.labels))
	for _, label := range maps.Keys(c.labels) {
		count := c.labels[label]
		rows = append(rows, Usage{
			Label: label,
			Count: count,
			Share: float64(count) / float64(c.commands),
		})
	}
	slices.SortFunc(rows, func(a, b Usage) bool {
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Label < b.Label
	})
	return rows
}

// WriteUsage writes the usage rows as an aligned table.
func (c *Collector[S, C]) WriteUsage(wrt io.Writer) {
	usage := c.Usage()

	w := tabwriter.NewWriter(wrt, 4, 4, 0, ' ', 0)
	fmt.Fprintf(w, "TRANSITION\tCOUNT\tSHARE\n")
	for _, row := range usage {
		fmt.Fprintf(w, "%v\t%v\t%.1f%%\n", row.Label, row.Count, 100*row.Share)
	}
	w.Flush()
}

// Export writes the Newick representation of the walked label tree to the
// writer.
func (c *Collector[S, C]) Export(wrt io.Writer) {
	c.RLock()
	defer c.RUnlock()
	fmt.Fprint(wrt, c.walks.Newick())
}

// Reset discards all collected traces.
func (c *Collector[S, C]) Reset() {
	c.Lock()
	defer c.Unlock()

	root := tree.New("start", func(a, b string) bool { return a == b })
	c.walks = &root
	c.labels = map[string]int{}
	c.finals = map[S]int{}
	c.outgoing = map[S]map[string]int{}
	c.commands = 0
}
