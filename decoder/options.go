package decoder

import (
	"github.com/rs/zerolog"

	"github.com/shiloren/gics/dictctx"
	"github.com/shiloren/gics/format"
	"github.com/shiloren/gics/internal/options"
)

// Options configures a Decoder.
type Options struct {
	IntegrityMode format.IntegrityMode
	Password      string
	Dict          *dictctx.DictContext
	Logger        zerolog.Logger
}

func defaultOptions() Options {
	return Options{
		IntegrityMode: format.IntegrityStrict,
		Logger:        zerolog.Nop(),
	}
}

// Option configures Options via the functional-options pattern.
type Option = options.Option[*Options]

// WithIntegrityMode sets how verification failures are handled: strict
// fails the operation, warn logs and continues (never used by Verify,
// which always fails closed regardless of this setting).
func WithIntegrityMode(m format.IntegrityMode) Option {
	return options.NoError(func(o *Options) { o.IntegrityMode = m })
}

// WithPassword supplies the password for an encrypted file.
func WithPassword(password string) Option {
	return options.NoError(func(o *Options) { o.Password = password })
}

// WithDict supplies the same DictContext instance the encoder used when
// ContextMode was on, so DICT_VARINT symbols resolve correctly.
func WithDict(d *dictctx.DictContext) Option {
	return options.NoError(func(o *Options) { o.Dict = d })
}

// WithLogger attaches a zerolog.Logger for structured diagnostic events.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(o *Options) { o.Logger = logger })
}
