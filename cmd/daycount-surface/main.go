// Daycount surface - out of process rendering for daycount
//
// The daycount-surface binary is started by daycount as a go-plugin child
// process and runs palette extraction and gradient synthesis programs.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"encoding/json"
	"fmt"
	"os"

	goplugin "github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/daycount/internal/logging"
	"github.com/jmylchreest/daycount/internal/surface"
	"github.com/jmylchreest/daycount/pkg/plugin"
)

// EnvDebug enables debug logging in the surface process.
const EnvDebug = "DAYCOUNT_SURFACE_DEBUG"

func main() {
	logger := logging.New(logging.Options{
		Verbose: os.Getenv(EnvDebug) != "",
		JSON:    true,
	}).Named("surface")

	host := surface.NewHost(surface.NewLocal(surface.NewRunner(logger), logger), logger)

	// Handle --plugin-info flag for discovery
	if len(os.Args) > 1 && os.Args[1] == "--plugin-info" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(host.GetMetadata()); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding plugin info: %v\n", err)
			os.Exit(1)
		}
		return
	}

	goplugin.Serve(&goplugin.ServeConfig{
		HandshakeConfig: plugin.Handshake,
		Plugins: map[string]goplugin.Plugin{
			plugin.PluginName: &plugin.SurfacePluginRPC{Impl: host},
		},
		Logger: logger,
	})
}
