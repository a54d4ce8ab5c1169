package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rhobimd-oss/shebe-releases/internal/mcp"
)

// runRun handles the `shebe-get run` subcommand: provision the binary,
// start it as an MCP server, perform the handshake, and list its tools.
func runRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	var opts provisionOpts
	registerProvisionFlags(fs, &opts)

	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), installTimeout)
	defer cancel()

	p, err := newProvisioner(ctx, &opts)
	if err != nil {
		return err
	}

	path, err := p.GetOrProvision(ctx)
	if err != nil {
		return err
	}

	// Server arguments after -- are passed through to the binary.
	client, err := mcp.Spawn(ctx, path, fs.Args()...)
	if err != nil {
		return err
	}
	defer client.Close()

	handshakeCtx, handshakeCancel := context.WithTimeout(ctx, 30*time.Second)
	defer handshakeCancel()

	result, err := client.Initialize(handshakeCtx)
	if err != nil {
		return fmt.Errorf("initialize handshake: %w", err)
	}

	fmt.Printf("Connected to %s %s (protocol %s)\n",
		result.ServerInfo.Name, result.ServerInfo.Version, result.ProtocolVersion)

	tools, err := client.ListTools(handshakeCtx)
	if err != nil {
		return fmt.Errorf("list tools: %w", err)
	}

	if len(tools) == 0 {
		fmt.Println("Server exposes no tools.")
		return nil
	}

	fmt.Println()
	fmt.Println("Tools:")
	for _, tool := range tools {
		if tool.Description != "" {
			fmt.Fprintf(os.Stdout, "  %-24s %s\n", tool.Name, tool.Description)
		} else {
			fmt.Fprintf(os.Stdout, "  %s\n", tool.Name)
		}
	}

	return nil
}
