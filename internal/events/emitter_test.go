package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitter_FireReachesAllListeners(t *testing.T) {
	e := NewEmitter[int]()
	var a, b int
	e.Subscribe(func(v int) { a = v })
	e.Subscribe(func(v int) { b = v })

	e.Fire(7)

	assert.Equal(t, 7, a)
	assert.Equal(t, 7, b)
}

func TestEmitter_DuplicateKeyIsNoOp(t *testing.T) {
	e := NewEmitter[string]()
	var got []string
	e.SubscribeWithKey("component-1", func(v string) { got = append(got, "first:"+v) })
	e.SubscribeWithKey("component-1", func(v string) { got = append(got, "second:"+v) })

	assert.Equal(t, 1, e.Len())
	e.Fire("x")
	assert.Equal(t, []string{"first:x"}, got)
}

func TestEmitter_DisposeIsIdempotent(t *testing.T) {
	e := NewEmitter[int]()
	calls := 0
	sub := e.Subscribe(func(int) { calls++ })
	other := e.Subscribe(func(int) {})

	sub.Dispose()
	sub.Dispose()
	e.Fire(1)

	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, e.Len())
	other.Dispose()
	assert.Equal(t, 0, e.Len())
}
