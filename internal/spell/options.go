package spell

// DefaultPrefix names the checker's marks and tag when no prefix is set.
const DefaultPrefix = "keyspell"

// Logger is the logging the checker needs. *app.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type filterSpec struct {
	pattern string
	scope   FilterScope
}

type options struct {
	language      string
	localeDefault *string
	prefix        string
	collapse      bool
	params        map[string]string
	filters       []filterSpec
	ignoreTags    []string
	logger        Logger
	onError       func(error)
}

// Option configures a Checker.
type Option func(*options)

func defaultOptions() options {
	return options{
		prefix:   DefaultPrefix,
		collapse: true,
		logger:   nopLogger{},
	}
}

// WithLanguage requests a dictionary language such as "en_US". When it is
// not installed the checker falls back to the locale default.
func WithLanguage(code string) Option {
	return func(o *options) {
		o.language = code
	}
}

// WithDefaultLocale replaces the system locale used as the first fallback
// language.
func WithDefaultLocale(code string) Option {
	return func(o *options) {
		o.localeDefault = &code
	}
}

// WithPrefix sets the prefix of the checker's mark and tag names.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

// WithCollapseSuggestions chooses whether context menu suggestions are
// nested in their own submenu (the default) or listed inline.
func WithCollapseSuggestions(collapse bool) Option {
	return func(o *options) {
		o.collapse = collapse
	}
}

// WithBackendParams passes settings to Broker.SetParam before any
// dictionary is requested.
func WithBackendParams(params map[string]string) Option {
	return func(o *options) {
		if o.params == nil {
			o.params = make(map[string]string, len(params))
		}
		for k, v := range params {
			o.params[k] = v
		}
	}
}

// WithFilter appends a filter pattern after the defaults. A pattern that
// does not compile makes New fail.
func WithFilter(pattern string, scope FilterScope) Option {
	return func(o *options) {
		o.filters = append(o.filters, filterSpec{pattern: pattern, scope: scope})
	}
}

// WithIgnoreTags exempts text carrying any of the named tags.
func WithIgnoreTags(names ...string) Option {
	return func(o *options) {
		o.ignoreTags = append(o.ignoreTags, names...)
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithErrorHandler receives errors that occur while handling buffer
// notifications, where they cannot be returned to a caller.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}
