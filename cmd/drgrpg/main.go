// Command drgrpg serves DRGRPG turns over HTTP and plays the game locally.
//
// Usage:
//
//	drgrpg serve [--config drgrpg.yaml]
//	drgrpg play [--player id] [--plain] [--script file] [--trace]
//	drgrpg player create <id> <name>
//	drgrpg version
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
