package cache

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey keys a rendered plot output.
	ArtifactKey(dataHash string, opts ArtifactKeyOpts) string
	// FilterKey keys a filtered dataset.
	FilterKey(dataHash string, opts FilterKeyOpts) string
}

// ArtifactKeyOpts are the render inputs besides the data.
type ArtifactKeyOpts struct {
	SpecHash string  `json:"spec"`
	Format   string  `json:"format"`
	Frame    string  `json:"frame,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// FilterKeyOpts are the between-events filter inputs.
type FilterKeyOpts struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Event string `json:"event"`
	Time  string `json:"time"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ArtifactKey(dataHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", dataHash, opts)
}

func (DefaultKeyer) FilterKey(dataHash string, opts FilterKeyOpts) string {
	return hashKey("filter", dataHash, opts)
}
