package crz

// Preferences is the key-value settings store available to nodes.
type Preferences interface {
	Get(key string, def any) any
	Set(key string, value any)
}

// Host is the integration context passed by reference into every node
// invocation. It replaces process-wide registries: two hosts never share
// published values or preferences.
type Host struct {
	// Values receives dashboard publications.
	Values *ValueRegistry

	// Prefs may be nil when the host runs without a preference file.
	Prefs Preferences

	// InputDir is the directory image file names are resolved against.
	InputDir string

	// Blocking reports whether the host can suspend downstream branches.
	// Without it, Block degrades to an empty value.
	Blocking bool

	Logger Logger
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithInputDir sets the image input directory.
func WithInputDir(dir string) HostOption {
	return func(h *Host) {
		h.InputDir = dir
	}
}

// WithPreferences attaches a preference store.
func WithPreferences(p Preferences) HostOption {
	return func(h *Host) {
		h.Prefs = p
	}
}

// WithoutBlocking disables branch suspension.
func WithoutBlocking() HostOption {
	return func(h *Host) {
		h.Blocking = false
	}
}

// WithHostLogger sets the logger nodes write to.
func WithHostLogger(l Logger) HostOption {
	return func(h *Host) {
		h.Logger = l
	}
}

// NewHost creates a host with an empty value registry, blocking enabled and
// "input" as the image directory.
func NewHost(opts ...HostOption) *Host {
	h := &Host{
		Values:   NewValueRegistry(),
		InputDir: "input",
		Blocking: true,
		Logger:   NopLogger{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Block returns the value a node emits in a slot whose downstream branch
// should not run: a Blocked marker, or nil when blocking is unsupported.
func (h *Host) Block() any {
	if h == nil || !h.Blocking {
		return nil
	}
	return Blocked{}
}

// Log returns the host logger, never nil.
func (h *Host) Log() Logger {
	if h == nil || h.Logger == nil {
		return NopLogger{}
	}
	return h.Logger
}
