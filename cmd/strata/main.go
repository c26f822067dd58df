// Package main provides the Strata CLI.
package main

import (
	"fmt"
	"os"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("Strata %s\n", version)
		return
	}

	fmt.Println("Strata - Tensor Metadata and Memory Hazard Tracking for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println()
	fmt.Println("Packages:")
	fmt.Println("  tensor          Tensors, patterns, storage and debug instrumentation")
	fmt.Println("  backend/cpu     Host allocator and reference elementwise kernels")
	fmt.Println("  backend/webgpu  GPU storage allocator (windows)")
	fmt.Println()
	fmt.Println("See the examples/ directory for usage.")
}
