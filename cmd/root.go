package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "canarycast",
	Short: "Canary Islands forecast cache tool",
	Long: `Canarycast manages the persistent forecast cache used by the Canary
Islands weather app: current conditions, multi-day forecasts, nearby points
of interest, AI insight narratives, and weather alerts.

Common usage:
  canarycast cache stats                   # Show per-namespace cache statistics
  canarycast cache cleanup                 # Sweep expired and stale entries
  canarycast show weather current_el-paso  # Print one cached entry with its age
  canarycast browse weather                # Browse a namespace interactively`,
	Version: "1.0.0",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
