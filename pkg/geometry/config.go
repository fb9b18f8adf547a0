package geometry

// Config controls marker dimensions and connector colors.
type Config struct {
	MarkerLength float64 `toml:"marker_length" json:"marker_length" validate:"gt=0"`
	MarkerWidth  float64 `toml:"marker_width" json:"marker_width" validate:"gt=0"`
	LineColor    string  `toml:"line_color" json:"line_color" validate:"hexcolor"`
	LineWidth    float64 `toml:"line_width" json:"line_width" validate:"gt=0"`
	MarkerStroke string  `toml:"marker_stroke" json:"marker_stroke" validate:"hexcolor"`
	FilledColor  string  `toml:"filled_color" json:"filled_color" validate:"hexcolor"`
	HollowColor  string  `toml:"hollow_color" json:"hollow_color" validate:"hexcolor"`
}

// DefaultConfig returns the standard connector style: grey 2px lines, black
// marker outlines, black filled and white hollow markers.
func DefaultConfig() Config {
	return Config{
		MarkerLength: 16,
		MarkerWidth:  12,
		LineColor:    "#888",
		LineWidth:    2,
		MarkerStroke: "#000",
		FilledColor:  "#000",
		HollowColor:  "#fff",
	}
}
