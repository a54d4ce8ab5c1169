package main

import (
	"fmt"
	"os"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version":
			fmt.Printf("shebe-get %s\n", Version)
			return
		case "resolve":
			if err := runResolve(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "install":
			if err := runInstall(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "run":
			if err := runRun(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "--help", "-h", "help":
			printUsage()
			return
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n", os.Args[1])
			printUsage()
			os.Exit(1)
		}
	}

	printUsage()
}

func printUsage() {
	fmt.Println("shebe-get - fetch and run shebe-mcp release builds")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  shebe-get --version              Show version information")
	fmt.Println("  shebe-get resolve [options]      Print the release asset name for a platform")
	fmt.Println("  shebe-get install [options]      Download and install the binary, print its path")
	fmt.Println("  shebe-get run [options]          Install, start the MCP server, and list its tools")
	fmt.Println()
	fmt.Println("Run 'shebe-get <command> --help' for command options.")
}
