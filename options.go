package mdhtml

// RenderOptions holds options for Markdownify.
type RenderOptions struct {
	Enabled bool
	Linkify Linkifier
	Config  *RenderConfig
}

// Option is a function that configures RenderOptions.
type Option func(*RenderOptions)

// WithMarkdownEnabled sets whether Markdown rendering is enabled.
//
// When disabled, Markdownify only runs the linkifier over the text.
func WithMarkdownEnabled(enable bool) Option {
	return func(opts *RenderOptions) {
		opts.Enabled = enable
	}
}

// WithLinkifier sets the upstream linkifier.
func WithLinkifier(fn Linkifier) Option {
	return func(opts *RenderOptions) {
		opts.Linkify = fn
	}
}

// WithConfig sets a custom RenderConfig.
func WithConfig(config *RenderConfig) Option {
	return func(opts *RenderOptions) {
		opts.Config = config
	}
}

// defaultRenderOptions returns the default Markdownify options.
func defaultRenderOptions() *RenderOptions {
	return &RenderOptions{
		Enabled: true,
		Config:  DefaultConfig(),
	}
}

// applyOptions applies the given options to the default options.
func applyOptions(opts ...Option) *RenderOptions {
	options := defaultRenderOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}
