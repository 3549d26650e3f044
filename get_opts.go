package asset

// GetOption configures a single accessor call.
type GetOption func(*getConfig)

type getConfig struct {
	cache directive
}

func newGetConfig(opts []GetOption) getConfig {
	var cfg getConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// UseCache overrides the ambient policy for one call.
//
// With false the cache is bypassed for both read and write: the asset is
// resolved fresh and an existing cached value is left as it is. With true
// the result is always persisted, weakly unless the ambient policy is Strong.
// Without this option the ambient policy decides.
func UseCache(use bool) GetOption {
	return func(c *getConfig) {
		c.cache = directive{set: true, use: use}
	}
}
