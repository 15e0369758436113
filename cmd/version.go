package cmd

import (
	"fmt"
	"os"
)

// Version information (injected at build time via ldflags).
var (
	AppVersion = "0.1.0"
	BuildTime  = "unknown"
	GitCommit  = "unknown"
)

func runVersion() error {
	fmt.Printf("versemind v%s\n", AppVersion)
	fmt.Printf("Build: %s\n", BuildTime)
	fmt.Printf("Commit: %s\n", GitCommit)

	// Show key presence without leaking the full value.
	if key := os.Getenv("GEMINI_API_KEY"); len(key) >= 8 {
		fmt.Printf("GEMINI_API_KEY: %s...%s (configured)\n", key[:4], key[len(key)-4:])
	} else if key != "" {
		fmt.Println("GEMINI_API_KEY: (configured)")
	} else {
		fmt.Println("GEMINI_API_KEY: not set")
	}
	return nil
}
