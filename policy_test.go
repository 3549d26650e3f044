package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Policy{
		"uncached": Uncached,
		"none":     Uncached,
		"off":      Uncached,
		"Weak":     Weak,
		"STRONG":   Strong,
	} {
		got, err := ParsePolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePolicy("forever")
	require.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestPolicyYAML(t *testing.T) {
	t.Parallel()

	var cfg struct {
		Policy Policy `yaml:"policy"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("policy: weak\n"), &cfg))
	assert.Equal(t, Weak, cfg.Policy)

	out, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	assert.Equal(t, "policy: weak\n", string(out))

	err = yaml.Unmarshal([]byte("policy: sometimes\n"), &cfg)
	require.ErrorIs(t, err, ErrInvalidPolicy)

	_, err = Policy(9).MarshalText()
	require.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestPolicyValid(t *testing.T) {
	t.Parallel()

	for _, p := range []Policy{Uncached, Weak, Strong} {
		assert.True(t, p.Valid(), p.String())
	}
	assert.False(t, Policy(3).Valid())
}
