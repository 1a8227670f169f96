package event

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var (
	keyA  = NewKey[*int]("a")
	test1 = NewKey[*int]("test1")
	test2 = NewKey[pair]("test2")
)

type pair struct {
	data, data2 *int
}

func add(n int) func(*int) {
	return func(counter *int) { *counter += n }
}

func TestSystem_Scenario(t *testing.T) {
	s := New()
	counter := 0

	off1 := On(s, keyA, add(1))
	On(s, keyA, add(2))
	On(s, keyA, add(3))
	Once(s, keyA, add(1))

	require.NoError(t, Emit(s, keyA, &counter))
	assert.Equal(t, 7, counter)
	assert.Equal(t, 3, s.Core().Registry().Len(keyA.ID()), "once-listener must be gone")

	off1()
	require.NoError(t, Emit(s, keyA, &counter))
	assert.Equal(t, 12, counter)
}

func TestSystem_MultipleListenersAndInstances(t *testing.T) {
	data1, data2 := 0, 0
	events := New()
	events2 := New()

	rm1 := On(events, test1, add(1))
	rm2 := On(events, test1, add(2))
	rm3 := On(events, test1, add(3))
	rm4 := On(events, test2, func(p pair) { *p.data += 4 })
	rm5 := On(events, test2, func(p pair) {
		*p.data += 5
		*p.data2 += 5
	})
	Once(events, test1, add(1))
	Once(events, test2, func(p pair) {
		*p.data += 5
		*p.data2 += 5
	})

	require.NoError(t, Emit(events, test1, &data1))
	assert.Equal(t, 7, data1)
	assert.Equal(t, 0, data2)

	rm1()
	require.NoError(t, Emit(events, test1, &data1))
	require.NoError(t, Emit(events, test2, pair{&data1, &data2}))
	assert.Equal(t, 26, data1)
	assert.Equal(t, 10, data2)

	rm2()
	Once(events, test1, add(4))
	require.NoError(t, Emit(events2, test1, &data1))
	require.NoError(t, Emit(events, test1, &data1))
	require.NoError(t, Emit(events, test2, pair{&data1, &data2}))
	assert.Equal(t, 42, data1)
	assert.Equal(t, 15, data2)

	rm3()
	rm4()
	require.NoError(t, Emit(events, test1, &data1))
	require.NoError(t, Emit(events, test2, pair{&data1, &data2}))
	assert.Equal(t, 47, data1)
	assert.Equal(t, 20, data2)

	rm5()
	require.NoError(t, Emit(events, test1, &data1))
	require.NoError(t, Emit(events, test2, pair{&data1, &data2}))
	assert.Equal(t, 47, data1)
	assert.Equal(t, 20, data2)
	assert.Equal(t, 0, events.Stats().Listeners)
}

func TestSystem_RegistrationOrder(t *testing.T) {
	s := New()
	key := NewKey[struct{}]("order")
	var order []int

	for i := 0; i < 10; i++ {
		i := i
		if i%3 == 0 {
			Once(s, key, func(struct{}) { order = append(order, i) })
			continue
		}
		On(s, key, func(struct{}) { order = append(order, i) })
	}

	require.NoError(t, Emit(s, key, struct{}{}))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestSystem_OnceFiresExactlyOnce(t *testing.T) {
	s := New()
	key := NewKey[int]("once")
	calls := 0
	off := Once(s, key, func(int) { calls++ })

	for i := 0; i < 5; i++ {
		require.NoError(t, Emit(s, key, i))
	}

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, s.Core().Registry().Len(key.ID()))

	// Calling the handle after auto-removal is a no-op.
	off()
	off()
	assert.Equal(t, uint64(1), s.Stats().OnceRemoved)
}

func TestSystem_NoListeners(t *testing.T) {
	s := New()
	key := NewKey[string]("nobody")

	assert.NoError(t, Emit(s, key, "hello"))
	assert.Equal(t, Stats{}, s.Stats())
	assert.Nil(t, s.Core().Registry().Keys())
}

func TestSystem_KeysWithSameNameDifferentTypes(t *testing.T) {
	s := New()
	strKey := NewKey[string]("x")
	intKey := NewKey[int]("x")
	var got []any

	On(s, strKey, func(v string) { got = append(got, v) })
	On(s, intKey, func(v int) { got = append(got, v) })

	require.NoError(t, Emit(s, intKey, 3))
	assert.Equal(t, []any{3}, got)
}

func TestSystem_ReentrantSubscribe(t *testing.T) {
	s := New()
	key := NewKey[struct{}]("re")
	var calls []string

	On(s, key, func(struct{}) {
		calls = append(calls, "first")
		On(s, key, func(struct{}) { calls = append(calls, "late") })
	})
	On(s, key, func(struct{}) { calls = append(calls, "second") })

	require.NoError(t, Emit(s, key, struct{}{}))
	assert.Equal(t, []string{"first", "second"}, calls, "listener added mid-pass must not run")

	calls = nil
	require.NoError(t, Emit(s, key, struct{}{}))
	assert.Equal(t, []string{"first", "second", "late"}, calls)
}

func TestSystem_ReentrantUnsubscribe(t *testing.T) {
	s := New()
	key := NewKey[struct{}]("re")
	var calls []string
	var offSecond, offOnce Unsubscribe

	On(s, key, func(struct{}) {
		calls = append(calls, "first")
		offSecond()
		offOnce()
	})
	offSecond = On(s, key, func(struct{}) { calls = append(calls, "second") })
	offOnce = Once(s, key, func(struct{}) { calls = append(calls, "once") })

	require.NoError(t, Emit(s, key, struct{}{}))
	assert.Equal(t, []string{"first", "second", "once"}, calls, "removal mid-pass must not affect the pass")

	calls = nil
	require.NoError(t, Emit(s, key, struct{}{}))
	assert.Equal(t, []string{"first"}, calls)
}

func TestSystem_ReentrantEmitOnce(t *testing.T) {
	s := New()
	key := NewKey[int]("nested")
	calls := 0

	Once(s, key, func(depth int) {
		calls++
		if depth < 3 {
			_ = Emit(s, key, depth+1)
		}
	})

	require.NoError(t, Emit(s, key, 0))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, s.Stats().Listeners)
}

func TestSystem_PanicIsolation(t *testing.T) {
	zcore, logs := observer.New(zapcore.DebugLevel)
	var handled []error
	s := New(
		WithLogger(zap.New(zcore)),
		WithErrorHandler(func(err error) { handled = append(handled, err) }),
	)
	key := NewKey[string]("boom")
	var calls []string

	On(s, key, func(string) { calls = append(calls, "before") })
	Once(s, key, func(string) {
		calls = append(calls, "panicking once")
		panic("listener exploded")
	})
	On(s, key, func(string) { calls = append(calls, "after") })
	Once(s, key, func(string) { calls = append(calls, "once") })

	err := Emit(s, key, "x")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrListenerPanic)
	var perr *PanicError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "boom", perr.Event)
	assert.Equal(t, "listener exploded", perr.Value)
	assert.NotEmpty(t, perr.Stack)

	assert.Equal(t, []string{"before", "panicking once", "after", "once"}, calls)
	assert.Equal(t, 2, s.Stats().Listeners, "both once-listeners removed despite the panic")
	require.Len(t, handled, 1)
	assert.Same(t, perr, handled[0])

	entries := logs.FilterMessage("listener panicked").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].ContextMap()["event"])
	assert.Equal(t, 1, logs.FilterMessage("dispatching event").Len())

	stats := s.Stats()
	assert.Equal(t, uint64(1), stats.Dispatches)
	assert.Equal(t, uint64(4), stats.Delivered)
	assert.Equal(t, uint64(1), stats.Panicked)
	assert.Equal(t, uint64(2), stats.OnceRemoved)
}

func TestSystem_MultiplePanicsJoined(t *testing.T) {
	s := New()
	key := NewKey[int]("boom")
	sentinel := errors.New("sentinel")

	On(s, key, func(int) { panic("first") })
	On(s, key, func(int) { panic(sentinel) })

	err := Emit(s, key, 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	assert.Len(t, joined.Unwrap(), 2)
}

func TestSystem_PanickingErrorHandler(t *testing.T) {
	s := New(WithErrorHandler(func(error) { panic("handler broke") }))
	key := NewKey[int]("boom")
	ran := false

	On(s, key, func(int) { panic("first") })
	On(s, key, func(int) { ran = true })

	assert.Error(t, Emit(s, key, 1))
	assert.True(t, ran)
}
