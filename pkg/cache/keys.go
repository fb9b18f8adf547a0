package cache

// LayoutKeyOpts are the inputs besides the graph that determine a layout.
// ConfigHash should cover every layout and sizer parameter.
type LayoutKeyOpts struct {
	ConfigHash string `json:"config"`
}

// ArtifactKeyOpts identify one rendered output of a layout.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Scale      float64 `json:"scale,omitempty"`
	Compact    bool    `json:"compact,omitempty"`
	Title      string  `json:"title,omitempty"`
	Background string  `json:"background,omitempty"`
	Graphviz   bool    `json:"graphviz,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	LayoutKey(fingerprint string, opts LayoutKeyOpts) string
	ArtifactKey(contentHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey keys a layout by graph fingerprint and configuration.
func (DefaultKeyer) LayoutKey(fingerprint string, opts LayoutKeyOpts) string {
	return hashKey("layout", fingerprint, opts)
}

// ArtifactKey keys a rendered artifact by its content hash and output options.
func (DefaultKeyer) ArtifactKey(contentHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", contentHash, opts)
}
