package encoder

import (
	"github.com/rs/zerolog"

	"github.com/shiloren/gics/compress"
	"github.com/shiloren/gics/dictctx"
	"github.com/shiloren/gics/format"
	"github.com/shiloren/gics/internal/options"
)

// Options configures an Encoder. Zero-value Options is not usable
// directly; construct via New(opts...), which starts from defaultOptions.
type Options struct {
	ContextMode      format.ContextMode
	ContextID        string
	ProbeInterval    int
	SegmentSizeLimit int
	OuterCodec       format.OuterCodec
	CompressionLevel int
	BlockSize        int
	Password         string
	Schema           []byte
	Dict             *dictctx.DictContext
	Logger           zerolog.Logger
}

func defaultOptions() Options {
	return Options{
		ContextMode:      format.ContextOff,
		ProbeInterval:    4,
		SegmentSizeLimit: 1024 * 1024,
		OuterCodec:       format.OuterZstd,
		CompressionLevel: compress.DefaultLevel,
		BlockSize:        format.MaxBlockItems,
		Logger:           zerolog.Nop(),
	}
}

// Option configures Options via the functional-options pattern.
type Option = options.Option[*Options]

// WithContextMode turns the shared DICT_VARINT dictionary on or off.
func WithContextMode(m format.ContextMode) Option {
	return options.NoError(func(o *Options) { o.ContextMode = m })
}

// WithContextID sets the header's contextId label, written only when
// ContextMode is on. It identifies the dictionary for the caller's own
// bookkeeping; GICS never looks it up by this string internally.
func WithContextID(id string) Option {
	return options.NoError(func(o *Options) { o.ContextID = id })
}

// WithDict supplies an explicit, caller-owned DictContext. Pass the same
// instance to multiple Encoders/Decoders to share DICT_VARINT state
// across them; omit it to get a fresh, unshared context.
func WithDict(d *dictctx.DictContext) Option {
	return options.NoError(func(o *Options) { o.Dict = d })
}

// WithProbeInterval sets how many quarantine blocks elapse between probe
// attempts on a lossy-risk stream.
func WithProbeInterval(n int) Option {
	return options.NoError(func(o *Options) { o.ProbeInterval = n })
}

// WithSegmentSizeLimit sets the approximate uncompressed byte threshold
// that triggers an automatic segment flush.
func WithSegmentSizeLimit(n int) Option {
	return options.NoError(func(o *Options) { o.SegmentSizeLimit = n })
}

// WithOuterCodec selects the per-segment outer compression algorithm.
func WithOuterCodec(c format.OuterCodec) Option {
	return options.NoError(func(o *Options) { o.OuterCodec = c })
}

// WithCompressionLevel sets the outer Zstd compression level (1..22).
func WithCompressionLevel(level int) Option {
	return options.NoError(func(o *Options) { o.CompressionLevel = level })
}

// WithBlockSize caps how many items accumulate into one block before it's
// flushed, independent of the hard format.MaxBlockItems ceiling.
func WithBlockSize(n int) Option {
	return options.NoError(func(o *Options) { o.BlockSize = n })
}

// WithPassword enables AES-256-GCM section encryption.
func WithPassword(password string) Option {
	return options.NoError(func(o *Options) { o.Password = password })
}

// WithSchema attaches an opaque schema blob to the header, round-tripped
// verbatim and never interpreted by GICS itself.
func WithSchema(schema []byte) Option {
	return options.NoError(func(o *Options) { o.Schema = schema })
}

// WithLogger attaches a zerolog.Logger for structured diagnostic events.
// The default is a no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(o *Options) { o.Logger = logger })
}

// Balanced trades ratio against speed: level 3 (the default level),
// 1000-item blocks. Without a preset, blocks hold up to MaxBlockItems.
func Balanced() []Option {
	return []Option{WithCompressionLevel(3), WithBlockSize(1000)}
}

// MaxRatio favors compression ratio over speed: level 9, 4000-item blocks.
func MaxRatio() []Option {
	return []Option{WithCompressionLevel(9), WithBlockSize(4000)}
}

// LowLatency favors encode speed: level 1, 512-item blocks.
func LowLatency() []Option {
	return []Option{WithCompressionLevel(1), WithBlockSize(512)}
}
