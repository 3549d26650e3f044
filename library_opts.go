package asset

import "log/slog"

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the logger used for diagnostics. Soft failures (missing,
// mistyped or unresolvable assets) are logged at warn level, cache activity
// at debug level. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Library) {
		l.logger = logger
	}
}

// WithPolicy sets the initial ambient cache policy (default: Strong). An
// undefined policy is ignored.
func WithPolicy(p Policy) Option {
	return func(l *Library) {
		if !p.Valid() {
			return
		}
		l.policy.Store(uint32(p))
	}
}

// WithDecoder replaces the decoder for kind. Music assets share the audio
// decoder, so KindMusic and KindAudio configure the same entry. A nil fn
// removes the decoder; raw bytes of that kind then fail to resolve.
func WithDecoder(kind Kind, fn DecodeFunc) Option {
	return func(l *Library) {
		if kind == KindMusic {
			kind = KindAudio
		}
		if fn == nil {
			delete(l.decoders, kind)
			return
		}
		l.decoders[kind] = fn
	}
}
