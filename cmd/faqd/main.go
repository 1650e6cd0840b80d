package main

import (
	"fmt"
	"os"

	"github.com/civika-labs/faqd/internal/adapters/driving/cli"
)

// version is set at build time:
//
//	go build -ldflags "-X main.version=v1.2.3" ./cmd/faqd
var version = "dev"

func main() {
	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
