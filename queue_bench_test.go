package bqueue

import (
	"fmt"
	"testing"
	"time"
)

// Benchmark pairs of Put/Take with a single consumer.
func BenchmarkPutTake(b *testing.B) {
	for _, capacity := range []int{1, 64, 1024} {
		b.Run(fmt.Sprintf("cap%d", capacity), func(b *testing.B) {
			q := MustNew[int](capacity, WithLogger(quietLogger()))
			done := make(chan struct{})
			go func() {
				for i := 0; i < b.N; i++ {
					_, _ = q.Take()
				}
				close(done)
			}()
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = q.Put(i)
			}
			<-done
		})
	}
}

// Benchmark TakeTimeout when values are always ready.
func BenchmarkTakeTimeoutReady(b *testing.B) {
	q := MustNew[int](1, WithLogger(quietLogger()))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = q.Put(i)
		_, _ = q.TakeTimeout(time.Millisecond)
	}
}

// Benchmark TryTake in a polling-like scenario.
func BenchmarkTryTake(b *testing.B) {
	q := MustNew[int](b.N+1, WithLogger(quietLogger()))
	for i := 0; i < b.N; i++ {
		_ = q.Put(i)
	}
	b.ReportAllocs()
	b.ResetTimer()
	taken := 0
	for taken < b.N {
		if _, ok := q.TryTake(); ok {
			taken++
		} else {
			time.Sleep(time.Microsecond)
		}
	}
}
