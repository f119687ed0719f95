package plugin

// PollResult is the state of a surface job.
type PollResult struct {
	// Ready is set once the job has finished.
	Ready bool `json:"ready"`

	// Result is the program output, valid when Ready and Error is empty.
	Result string `json:"result,omitempty"`

	// Error is the failure message of a finished job.
	Error string `json:"error,omitempty"`
}
