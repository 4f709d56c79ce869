// Command gomimir solves the built-in benchmark domains with the
// planning core: breadth-first search, IW, or SIW over lifted grounding
// with stratified axiom evaluation.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
