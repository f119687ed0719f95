package plugin

// Surface is implemented by the rendering surface served over go-plugin RPC.
// Programs are opaque JSON documents; each Load starts a job that is polled
// until it reports a result.
type Surface interface {
	// Load starts running a program and returns its job ID.
	Load(program []byte) (string, error)

	// Poll reports the state of a job.
	Poll(id string) (PollResult, error)

	// Release discards a job and its result.
	Release(id string) error

	// GetMetadata returns surface metadata.
	GetMetadata() PluginInfo
}
