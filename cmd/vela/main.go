package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"vela/pkg/engine"
	"vela/pkg/stdlib"
	"vela/pkg/version"
)

func printUsage() {
	fmt.Println("Vela - an embeddable expression-scripting engine")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  vela <script.vl>           Run a Vela script")
	fmt.Println("  vela --help, -h            Show this help message")
	fmt.Println("  vela --version, -v         Show version information")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  vela server.vl")
}

func printVersion() {
	fmt.Printf("vela version %s\n", version.Version)
	fmt.Printf("Build date: %s\n", version.BuildDate)
	fmt.Printf("Commit: %s\n", version.GitCommit)
}

func main() {
	// .env is optional; godotenv.Load silently no-ops when absent.
	_ = godotenv.Load()

	helpFlag := flag.Bool("help", false, "Show help message")
	helpShort := flag.Bool("h", false, "Show help message")
	versionFlag := flag.Bool("version", false, "Show version information")
	versionShort := flag.Bool("v", false, "Show version information")
	maxDepth := flag.Int("max-call-depth", 0, "Recursion ceiling (0 = unlimited)")
	maxOps := flag.Int("max-operations", 0, "Operation ceiling per run (0 = unlimited)")
	maxArrayLen := flag.Int("max-data-size", 0, "Cumulative array-element/map-entry budget per run (0 = unlimited)")
	checkedArith := flag.Bool("checked-arithmetic", true, "Trap integer overflow instead of wrapping")

	flag.Usage = printUsage
	flag.Parse()

	if *helpFlag || *helpShort {
		printUsage()
		os.Exit(0)
	}
	if *versionFlag || *versionShort {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(0)
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", args[0], err)
		os.Exit(1)
	}

	eng := engine.New()
	eng.SetCheckedArithmetic(*checkedArith)
	eng.Limits.MaxCallDepth = *maxDepth
	eng.Limits.MaxOperations = *maxOps
	eng.Limits.MaxArrayLen = *maxArrayLen
	stdlib.Install(eng.Registry)

	result, err := eng.Run(string(content))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if result != nil {
		fmt.Println(result.Inspect())
	}
}
