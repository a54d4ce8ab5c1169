package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/rhobimd-oss/shebe-releases/internal/binary"
	"github.com/rhobimd-oss/shebe-releases/internal/platform"
)

// runResolve handles the `shebe-get resolve` subcommand. It prints the
// release asset name without touching the network; OS and architecture
// default to the detected host.
func runResolve(args []string) error {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	osFlag := fs.String("os", "", "target OS: mac or linux (default: detected host)")
	archFlag := fs.String("arch", "", "target architecture: x86_64 or aarch64 (default: detected host)")
	version := fs.String("tag", "", "release tag to resolve against (required)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *version == "" {
		return fmt.Errorf("-tag is required (e.g. -tag v0.3.1)")
	}

	target, err := resolveTarget(*osFlag, *archFlag)
	if err != nil {
		return err
	}

	name, err := binary.ResolveAssetName(*version, target.OS, target.Arch)
	if err != nil {
		return err
	}

	fmt.Println(name)
	return nil
}

// resolveTarget fills in any unset OS/arch from host detection.
func resolveTarget(osFlag, archFlag string) (platform.Target, error) {
	var target platform.Target

	if osFlag == "" || archFlag == "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		info, err := platform.NewDetector().Detect(ctx)
		if err != nil {
			return target, fmt.Errorf("detect platform: %w", err)
		}

		detected, err := info.Target()
		if err != nil {
			return target, err
		}
		target = detected
	}

	if osFlag != "" {
		target.OS = platform.OsKind(osFlag)
	}
	if archFlag != "" {
		target.Arch = platform.ArchKind(archFlag)
	}

	return target, nil
}
