package hostwindow

// Option is a functional option for configuring a Window at New time.
type Option func(w *glfwWindow)

// WithTitle sets the window title.
func WithTitle(title string) Option {
	return func(w *glfwWindow) { w.title = title }
}

// WithSize sets the initial framebuffer size in pixels.
func WithSize(width, height int) Option {
	return func(w *glfwWindow) {
		w.width = width
		w.height = height
	}
}

// WithMinSize sets the minimum allowed window size during resize.
func WithMinSize(width, height int) Option {
	return func(w *glfwWindow) {
		w.minWidth = width
		w.minHeight = height
	}
}

// WithMaxSize sets the maximum allowed window size during resize.
func WithMaxSize(width, height int) Option {
	return func(w *glfwWindow) {
		w.maxWidth = width
		w.maxHeight = height
	}
}
