package adsbridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParams_KeepsInsertionOrder(t *testing.T) {
	p := NewParams()
	p.Set("z", "1")
	p.Set("a", "2")
	p.Set("m", "3")
	p.Set("z", "4")

	assert.Equal(t, []string{"z", "a", "m"}, p.Keys())
	v, ok := p.Get("z")
	assert.True(t, ok)
	assert.Equal(t, "4", v)
	assert.Equal(t, 3, p.Len())
}

func TestParams_EnhanceNeverOverwrites(t *testing.T) {
	p := NewParams()
	p.Set("oauth_consumer_key", "caller")
	p.Enhance(map[string]string{
		"oauth_consumer_key": "session",
		"oauth_token":        "tk",
	})

	v, _ := p.Get("oauth_consumer_key")
	assert.Equal(t, "caller", v)
	assert.True(t, p.Has("oauth_token"))
	assert.Equal(t, []string{"oauth_consumer_key", "oauth_token"}, p.Keys())
}

func TestParams_EnhanceIsDeterministic(t *testing.T) {
	m := map[string]string{"c": "3", "a": "1", "b": "2"}
	for i := 0; i < 20; i++ {
		p := NewParams()
		p.Enhance(m)
		assert.Equal(t, []string{"a", "b", "c"}, p.Keys())
	}
}

func TestParams_Delete(t *testing.T) {
	p := NewParams()
	p.Set("a", "1")
	p.Set("b", "2")
	p.Set("c", "3")
	p.Delete("b")
	p.Delete("missing")

	assert.Equal(t, []string{"a", "c"}, p.Keys())
	assert.False(t, p.Has("b"))
	assert.Equal(t, []Pair{{Key: "a", Value: "1"}, {Key: "c", Value: "3"}}, p.Pairs())
	assert.Equal(t, map[string]string{"a": "1", "c": "3"}, p.Map())
}
