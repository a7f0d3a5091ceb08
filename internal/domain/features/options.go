package features

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithRestDayCap sets the maximum rest-day value; rest beyond the cap
// collapses to it.
func WithRestDayCap(days int) Option {
	return func(b *Builder) {
		if days > 0 {
			b.restDayCap = days
		}
	}
}
