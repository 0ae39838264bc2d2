// chainlint checks chain skeletons before any test walks them.
//
// A skeleton is the statically checkable part of a markov chain: the
// states and their weighted alternatives, written as YAML without the
// command generators. chainlint rebuilds a chain from the skeleton and
// runs the same validation the test engine runs, so weight mistakes and
// states that cannot reach a stop are caught at review time instead of
// as a hanging test.
//
//	chainlint registry.yaml dispenser.yaml
//	chainlint --initial busy registry.yaml
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initialState string

var rootCmd = &cobra.Command{
	Use:   "chainlint [skeleton...]",
	Short: "Validate markov chain skeletons",
	Long: `chainlint validates the statically checkable part of a markov chain:
that every weight is non-negative, that the weights of every reachable
state sum to exactly 100, and that every reachable state can reach a
stop through positively weighted alternatives.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			if err := lintFile(path, initialState); err != nil {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("chain validation failed for %d of %d skeletons", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&initialState, "initial", "", "start state, overriding the skeleton's declared initial state")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
