package diagram

// Default geometry, matching the dashboard the diagrams were designed for.
const (
	DefaultWidth          = 1200.0
	DefaultHeight         = 600.0
	DefaultBandFraction   = 0.2
	DefaultRibbonFraction = 0.3
	DefaultRibbonOffset   = 0.25
	DefaultBandInset      = 0.1
)

// Padding is the blank margin around the drawing area.
type Padding struct {
	Top    float64 `json:"top" toml:"top"`
	Right  float64 `json:"right" toml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom"`
	Left   float64 `json:"left" toml:"left"`
}

// DefaultPadding leaves room for the year axis below the bands.
var DefaultPadding = Padding{Top: 16, Right: 20, Bottom: 46, Left: 20}

// Options configures diagram geometry. Zero Width, Height, BandFraction and
// RibbonFraction take defaults, since none of them can usefully be zero. Nil
// Padding, RibbonOffset and BandInset take defaults; point them at 0 to
// remove the margin or shift.
type Options struct {
	Width          float64  `json:"width,omitempty" toml:"width"`
	Height         float64  `json:"height,omitempty" toml:"height"`
	Padding        *Padding `json:"padding,omitempty" toml:"padding"`
	BandFraction   float64  `json:"band_fraction,omitempty" toml:"band_fraction"`
	RibbonFraction float64  `json:"ribbon_fraction,omitempty" toml:"ribbon_fraction"`
	RibbonOffset   *float64 `json:"ribbon_offset,omitempty" toml:"ribbon_offset"`
	BandInset      *float64 `json:"band_inset,omitempty" toml:"band_inset"`
}

// Float returns a pointer to v, for the optional fields of [Options].
func Float(v float64) *float64 { return &v }

// WithDefaults returns o with every unset field replaced by its default.
func (o Options) WithDefaults() Options {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Padding == nil {
		p := DefaultPadding
		o.Padding = &p
	}
	if o.BandFraction == 0 {
		o.BandFraction = DefaultBandFraction
	}
	if o.RibbonFraction == 0 {
		o.RibbonFraction = DefaultRibbonFraction
	}
	if o.RibbonOffset == nil {
		o.RibbonOffset = Float(DefaultRibbonOffset)
	}
	if o.BandInset == nil {
		o.BandInset = Float(DefaultBandInset)
	}
	return o
}
