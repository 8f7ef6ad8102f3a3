package cache

import "fmt"

// DiagramKeyOpts holds the options that change a computed diagram.
type DiagramKeyOpts struct {
	Ordering string  `json:"ordering"`
	Limit    int     `json:"limit"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// Keyer derives cache keys.
type Keyer interface {
	// DiagramKey identifies the diagram for a dataset (by content hash)
	// under the given options.
	DiagramKey(datasetHash string, opts DiagramKeyOpts) string

	// OrderKey identifies the ordering of one step against its predecessor.
	OrderKey(prevHash, currHash, ordering string) string
}

// DefaultKeyer produces unprefixed, content-addressed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DiagramKey returns "diagram:<sha256>" over the dataset hash and options.
func (DefaultKeyer) DiagramKey(datasetHash string, opts DiagramKeyOpts) string {
	return hashKey("diagram", datasetHash, opts)
}

// OrderKey returns "order:<ordering>:<sha256>" over both step hashes.
func (DefaultKeyer) OrderKey(prevHash, currHash, ordering string) string {
	return hashKey(fmt.Sprintf("order:%s", ordering), prevHash, currHash)
}

var _ Keyer = DefaultKeyer{}
