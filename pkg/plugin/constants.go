// Package plugin provides the public RPC contract between daycount and an
// out-of-process rendering surface.
package plugin

import (
	"github.com/hashicorp/go-plugin"
)

const (
	// ProtocolVersion defines the current surface API version.
	// Format: MAJOR.MINOR.PATCH.
	ProtocolVersion = "0.1.0"

	// PluginName is the key under which the surface is dispensed.
	PluginName = "surface"
)

// Handshake is the handshake configuration for go-plugin protocol.
// This ensures that surfaces can only connect to compatible hosts.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  0, // Major version from ProtocolVersion
	MagicCookieKey:   "DAYCOUNT_SURFACE",
	MagicCookieValue: "daycount_render_surface",
}
