// Command faceval runs the cross-validated pair-verification protocol over
// precomputed pair scores, printing per-fold accuracies and thresholds.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
