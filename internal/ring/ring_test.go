package ring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIFO(t *testing.T) {
	b := New[int](3)
	if !b.Empty() {
		t.Fatal("new ring should be empty")
	}
	require.True(t, b.Push(1))
	require.True(t, b.Push(2))
	require.True(t, b.Push(3))

	if b.Len() != 3 {
		t.Fatalf("len = %d want 3", b.Len())
	}
	if v, ok := b.Peek(); !ok || v != 1 {
		t.Fatalf("peek = %v,%v want 1,true", v, ok)
	}
	for i := 1; i <= 3; i++ {
		v, ok := b.Pop()
		if !ok || v != i {
			t.Fatalf("pop = %v,%v want %d,true", v, ok, i)
		}
	}
	if _, ok := b.Pop(); ok {
		t.Fatal("expected empty after pops")
	}
}

func TestPushFull(t *testing.T) {
	b := New[string](2)
	assert.True(t, b.Push("a"))
	assert.True(t, b.Push("b"))
	assert.True(t, b.Full())
	assert.False(t, b.Push("c"), "push on a full ring must fail")
	assert.Equal(t, []string{"a", "b"}, b.ToSlice())
}

func TestWrapAround(t *testing.T) {
	b := New[int](3)
	next := 0
	var got []int
	// Keep the ring partly filled while head walks around it several times.
	for round := 0; round < 10; round++ {
		for !b.Full() {
			b.Push(next)
			next++
		}
		v, _ := b.Pop()
		got = append(got, v)
		v, _ = b.Pop()
		got = append(got, v)
	}
	for !b.Empty() {
		v, _ := b.Pop()
		got = append(got, v)
	}
	require.Len(t, got, next)
	for i, v := range got {
		if v != i {
			t.Fatalf("order mismatch at %d: got %d", i, v)
		}
	}
}

func TestPopZeroesSlot(t *testing.T) {
	b := New[*int](1)
	x := 7
	b.Push(&x)
	b.Pop()
	assert.Nil(t, b.data[0])
}

func TestClear(t *testing.T) {
	b := New[int](4)
	b.Push(1)
	b.Push(2)
	b.Pop()
	b.Push(3)
	b.Clear()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 4, b.Cap())
	assert.Empty(t, b.ToSlice())
	assert.True(t, b.Push(9))
	v, ok := b.Peek()
	assert.True(t, ok)
	assert.Equal(t, 9, v)
}

func TestZeroCapacity(t *testing.T) {
	b := New[int](-1)
	assert.Equal(t, 0, b.Cap())
	assert.True(t, b.Full())
	assert.True(t, b.Empty())
	assert.False(t, b.Push(1))
	var zero Buffer[int]
	assert.False(t, zero.Push(1))
}

func TestHugeCapacityAllocatesLazily(t *testing.T) {
	b := New[int](math.MaxInt)
	assert.Equal(t, math.MaxInt, b.Cap())
	assert.Equal(t, 0, len(b.data))
	require.True(t, b.Push(1))
	assert.Equal(t, initialSize, len(b.data))
	assert.False(t, b.Full())
}

func TestGrowPreservesOrderAcrossWrap(t *testing.T) {
	b := New[int](100)
	next, want := 0, 0
	for i := 0; i < 10; i++ {
		b.Push(next)
		next++
	}
	// Move head off zero so the next growth has to unwrap the contents.
	for i := 0; i < 5; i++ {
		v, _ := b.Pop()
		require.Equal(t, want, v)
		want++
	}
	for !b.Full() {
		b.Push(next)
		next++
	}
	assert.Equal(t, 100, b.Len())
	assert.Equal(t, 100, len(b.data), "storage must stop growing at capacity")
	for !b.Empty() {
		v, _ := b.Pop()
		if v != want {
			t.Fatalf("pop = %d want %d", v, want)
		}
		want++
	}
	assert.Equal(t, next, want)
}
