package trace

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gombt/markov"
)

func testTrace(labels []string, final string) markov.Trace[string, string] {
	steps := make([]markov.Step[string, string], len(labels))
	for i, label := range labels {
		steps[i] = markov.Step[string, string]{From: "s", Label: label, Command: label, To: "s"}
	}
	return markov.Trace[string, string]{Steps: steps, Final: final, Stopped: true}
}

func TestCollectorCounts(t *testing.T) {
	c := NewCollector[string, string]()
	c.AddWalk(testTrace([]string{"take", "put"}, "empty"))
	c.AddWalk(testTrace([]string{"take", "take"}, "full"))
	c.AddWalk(testTrace(nil, "empty"))

	if c.Walks() != 3 {
		t.Errorf("Collected three traces. Got: %v", c.Walks())
	}
	if c.Commands() != 4 {
		t.Errorf("Collected four transitions in total. Got: %v", c.Commands())
	}
	if !c.Seen("take") {
		t.Errorf("Expected the transition \"take\" to have been seen")
	}
	if c.Seen("drop") {
		t.Errorf("Did not expect the transition \"drop\" to have been seen")
	}

	finals := c.Finals()
	if finals["empty"] != 2 || finals["full"] != 1 {
		t.Errorf("Expected two walks to end in empty and one in full. Got: %v", finals)
	}
}

func TestCollectorUsage(t *testing.T) {
	c := NewCollector[string, string]()
	c.AddWalk(testTrace([]string{"take", "take", "put"}, "s"))
	c.AddWalk(testTrace([]string{"take", "drop"}, "s"))

	usage := c.Usage()
	if len(usage) != 3 {
		t.Fatalf("Expected three distinct transitions. Got: %v", usage)
	}
	if usage[0].Label != "take" || usage[0].Count != 3 {
		t.Errorf("Expected take to be the most taken transition. Got: %v", usage[0])
	}
	// Equal counts are ordered alphabetically
	if usage[1].Label != "drop" || usage[2].Label != "put" {
		t.Errorf("Expected drop before put. Got: %v and %v", usage[1], usage[2])
	}
	if usage[0].Share != 0.6 {
		t.Errorf("Expected take to account for 0.6 of all transitions. Got: %v", usage[0].Share)
	}
}

func TestCollectorObservedPercent(t *testing.T) {
	c := NewCollector[string, string]()
	c.AddWalk(testTrace([]string{"take", "take", "put"}, "s"))

	percent := c.ObservedPercent("s")
	expected := map[string]float64{"take": 50, "put": 25, StopLabel: 25}
	if diff := cmp.Diff(expected, percent); diff != "" {
		t.Errorf("Unexpected distribution. Diff (-expected +got):\n%s", diff)
	}

	if c.ObservedPercent("unvisited") != nil {
		t.Errorf("Expected no distribution for a state no walk visited. Got: %v", c.ObservedPercent("unvisited"))
	}
}

func TestCollectorExport(t *testing.T) {
	c := NewCollector[string, string]()
	c.AddWalk(testTrace([]string{"take", "put"}, "s"))

	var newick strings.Builder
	c.Export(&newick)
	if expected := `(("put":1)"take":1)"start":1;`; newick.String() != expected {
		t.Errorf("Unexpected export. Expected %v. Got: %v", expected, newick.String())
	}

	var table strings.Builder
	c.WriteUsage(&table)
	if !strings.Contains(table.String(), "TRANSITION") {
		t.Errorf("Expected the usage table to have a header. Got: %v", table.String())
	}
	if !strings.Contains(table.String(), "take") {
		t.Errorf("Expected the usage table to list take. Got: %v", table.String())
	}
}

func TestCollectorConcurrentAdd(t *testing.T) {
	c := NewCollector[string, string]()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				c.AddWalk(testTrace([]string{"take"}, "s"))
			}
		}()
	}
	wg.Wait()

	if c.Walks() != 100 {
		t.Errorf("Collected 100 traces. Got: %v", c.Walks())
	}
	if c.Commands() != 100 {
		t.Errorf("Collected 100 transitions. Got: %v", c.Commands())
	}
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector[string, string]()
	c.AddWalk(testTrace([]string{"take"}, "s"))
	c.Reset()

	if c.Walks() != 0 || c.Commands() != 0 {
		t.Errorf("Expected the collector to be empty after a reset. Got: %v walks, %v commands", c.Walks(), c.Commands())
	}
	if len(c.Usage()) != 0 {
		t.Errorf("Expected no usage rows after a reset. Got: %v", c.Usage())
	}
}
