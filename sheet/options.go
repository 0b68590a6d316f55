package sheet

// Option adjusts a single sheet operation.
type Option func(*options)

type options struct {
	suffix    string
	skipRows  int
	skipStart int
	skipEnd   int
}

func newOptions(skipRows int, opts []Option) options {
	o := options{skipRows: skipRows}
	for _, opt := range opts {
		opt(&o)
	}
	if o.skipRows < 0 {
		o.skipRows = 0
	}
	if o.skipStart < 0 {
		o.skipStart = 0
	}
	if o.skipEnd < 0 {
		o.skipEnd = 0
	}
	return o
}

// WithSuffix selects the sheet titled "<SheetName> <suffix>".
func WithSuffix(suffix string) Option {
	return func(o *options) { o.suffix = suffix }
}

// SkipRows skips leading non-blank rows when reading. When writing many records,
// a positive n replaces everything below the first n rows instead of appending.
func SkipRows(n int) Option {
	return func(o *options) { o.skipRows = n }
}

// SkipColumns leaves out start columns on the left and end columns on the right.
func SkipColumns(start, end int) Option {
	return func(o *options) {
		o.skipStart = start
		o.skipEnd = end
	}
}
