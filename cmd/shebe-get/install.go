package main

import (
	"context"
	"flag"
	"fmt"
	"time"
)

// installTimeout bounds the whole provisioning sequence, download
// included.
const installTimeout = 10 * time.Minute

// runInstall handles the `shebe-get install` subcommand: provision the
// binary for the host platform and print its path.
func runInstall(args []string) error {
	fs := flag.NewFlagSet("install", flag.ContinueOnError)
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

	fmt.Println(path)
	return nil
}
