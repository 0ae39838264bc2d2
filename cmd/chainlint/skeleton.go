package main

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"gombt/markov"
)

// A skeleton is a chain with the generators left out: states, and out of
// each state a list of weighted edges that either stop the walk or name
// the transition and its successor state.
//
//	initial: idle
//	states:
//	  idle:
//	    - label: spawn
//	      weight: 70
//	      next: busy
//	    - stop: 30
type skeleton struct {
	Initial string            `yaml:"initial"`
	States  map[string][]edge `yaml:"states"`
}

// An edge is one alternative out of a state. Continue edges carry label,
// weight and next; terminal edges set stop to their weight instead.
type edge struct {
	Label  string `yaml:"label"`
	Weight int    `yaml:"weight"`
	Next   string `yaml:"next"`
	Stop   *int   `yaml:"stop"`
}

func loadSkeleton(path string) (skeleton, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return skeleton{}, err
	}
	var sk skeleton
	if err := yaml.Unmarshal(data, &sk); err != nil {
		return skeleton{}, err
	}
	return sk, nil
}

// check reports the structural defects that keep the skeleton from being
// a chain at all. Weight and liveness checks are left to markov.Validate.
func (sk skeleton) check(initial string) []error {
	if len(sk.States) == 0 {
		return []error{errors.New("no states declared")}
	}
	if initial == "" {
		return []error{errors.New("no initial state: declare initial in the skeleton or pass --initial")}
	}

	var errs []error
	if _, ok := sk.States[initial]; !ok {
		errs = append(errs, fmt.Errorf("initial state %v is not declared", initial))
	}

	states := maps.Keys(sk.States)
	slices.Sort(states)
	for _, s := range states {
		for i, e := range sk.States[s] {
			switch {
			case e.Stop != nil && (e.Label != "" || e.Next != ""):
				errs = append(errs, fmt.Errorf("state %v: alternative %v mixes stop with label or next", s, i))
			case e.Stop == nil && e.Label == "":
				errs = append(errs, fmt.Errorf("state %v: alternative %v has no label", s, i))
			case e.Stop == nil && e.Next == "":
				errs = append(errs, fmt.Errorf("state %v: alternative %q has no next state", s, e.Label))
			case e.Stop == nil:
				if _, ok := sk.States[e.Next]; !ok {
					errs = append(errs, fmt.Errorf("state %v: alternative %q leads to undeclared state %v", s, e.Label, e.Next))
				}
			}
		}
	}
	return errs
}

// chain lifts the skeleton into a walkable chain. Generators produce the
// transition label itself as the command, which is all a static check or
// a dry walk needs.
func (sk skeleton) chain() markov.Chain[string, struct{}, string] {
	return func(s string) []markov.Alternative[string, struct{}, string] {
		var alts []markov.Alternative[string, struct{}, string]
		for _, e := range sk.States[s] {
			if e.Stop != nil {
				alts = append(alts, markov.Stop[string, struct{}, string](*e.Stop))
				continue
			}
			label := e.Label
			gen := func(m struct{}) (string, struct{}, error) { return label, m, nil }
			alts = append(alts, markov.Continue(e.Weight, label, gen, e.Next))
		}
		return alts
	}
}

// lintFile validates one skeleton and prints the result. The returned
// error only marks the file as failed, everything the user needs is on
// stdout.
func lintFile(path, initial string) error {
	sk, err := loadSkeleton(path)
	if err != nil {
		fmt.Printf("%s: chain validation failed\n", path)
		fmt.Printf("  ERROR: %s\n", err.Error())
		return err
	}
	if initial == "" {
		initial = sk.Initial
	}

	errs := sk.check(initial)
	if len(errs) == 0 {
		for _, v := range markov.Validate(sk.chain(), initial) {
			errs = append(errs, v)
		}
	}

	if len(errs) > 0 {
		fmt.Printf("%s: chain validation failed\n", path)
		for _, e := range errs {
			fmt.Printf("  ERROR: %s\n", e.Error())
		}
		return fmt.Errorf("%v: %d errors", path, len(errs))
	}

	alts := 0
	for _, edges := range sk.States {
		alts += len(edges)
	}
	fmt.Printf("%s: chain validation passed\n", path)
	fmt.Printf("  States declared: %d\n", len(sk.States))
	fmt.Printf("  Alternatives declared: %d\n", alts)
	return nil
}
