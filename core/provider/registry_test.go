package provider

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

type namedProvider string

func (p namedProvider) GetName() string {
	return string(p)
}

func TestRegisterAndLoad(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.Register(ShardingAlgorithm, namedProvider("MOD")))
	assert.NoError(t, r.Register(ShardingAlgorithm, namedProvider("INLINE")))

	p, ok := r.TryLoad(ShardingAlgorithm, " mod ")
	assert.True(t, ok)
	assert.Equal(t, "MOD", p.GetName())

	assert.Nil(t, r.Load(ShardingAlgorithm, "HASH_MOD"))
	assert.Equal(t, []string{"INLINE", "MOD"}, r.Names(ShardingAlgorithm))

	r.Delete(ShardingAlgorithm, "mod")
	_, ok = r.TryLoad(ShardingAlgorithm, "MOD")
	assert.False(t, ok)
}

func TestRegisterInvalid(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(ShardingAlgorithm, nil))
	assert.Error(t, r.Register(ShardingAlgorithm, namedProvider(" ")))
}

func TestLoadOrStore(t *testing.T) {
	r := NewRegistry()
	p, loaded := r.LoadOrStore(ShardingAlgorithm, "range", func() Provider { return namedProvider("RANGE") })
	assert.False(t, loaded)
	assert.Equal(t, "RANGE", p.GetName())

	p, loaded = r.LoadOrStore(ShardingAlgorithm, "RANGE", func() Provider { return namedProvider("OTHER") })
	assert.True(t, loaded)
	assert.Equal(t, "RANGE", p.GetName())
}
