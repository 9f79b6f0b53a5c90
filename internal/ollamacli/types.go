// internal/ollamacli/types.go
package ollamacli

// Model represents a locally installed model as reported by `ollama list`.
type Model struct {
	Name      string `json:"name"`
	ID        string `json:"id"`
	Size      string `json:"size"`
	SizeBytes uint64 `json:"sizeBytes,omitempty"`
	Modified  string `json:"modified,omitempty"`
}

// RunningModel represents a currently loaded model as reported by `ollama ps`.
// Entries carry no identity across refreshes: each listing fully replaces the
// prior set.
type RunningModel struct {
	Name      string `json:"name"`
	ID        string `json:"id"`
	Size      string `json:"size"`
	SizeBytes uint64 `json:"sizeBytes,omitempty"`
	Processor string `json:"processor"`
	Until     string `json:"until"`
}

// PullEvent is one element of the progress stream produced by Pull. The final
// event has Done set; its Err carries the exit status classification when the
// pull failed.
type PullEvent struct {
	Status  string
	Percent float64
	Done    bool
	Err     error
}
