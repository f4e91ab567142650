package bqueue

// Advanced: Shutdown and Timeout Patterns
//
// Close replaces the usual "producer finished" flag shared between
// goroutines. The last producer closes the queue; consumers keep calling Take
// until it reports ErrClosed, which only happens once every buffered value
// has been delivered:
//
//  q := bqueue.MustNew[int](16)
//
//  go func() {
//      defer q.Close()
//      for i := 0; i < 100; i++ {
//          if err := q.Put(i); err != nil {
//              return
//          }
//      }
//  }()
//
//  for {
//      v, err := q.Take()
//      if bqueue.IsClosed(err) {
//          break
//      }
//      use(v)
//  }
//
// TakeTimeout reports ErrTimeout when nothing arrived in time. It is a normal
// control-flow branch, not a failure:
//
//  v, err := q.TakeTimeout(50 * time.Millisecond)
//  switch {
//  case err == nil:
//      use(v)
//  case bqueue.IsTimeout(err):
//      // idle; do housekeeping and poll again
//  case bqueue.IsClosed(err):
//      return
//  }
//
// Timeout policy:
//   - DeadlinePolicy (default) computes one deadline when the call starts.
//     Wakes that find the queue still empty only get what is left of it.
//   - PerWaitPolicy restarts the full budget after every such wake. Under
//     contention from other consumers a call can therefore block well past
//     its budget; pick it only when that is acceptable.
//
// Signalling notes:
//   - Producers and consumers wait on separate condition variables sharing
//     the queue's mutex, so a Signal from Put always lands on a consumer and
//     a Signal from Take on a producer.
//   - Every wait sits in a loop that rechecks full/empty/closed, which makes
//     spurious wakeups harmless.
//   - Close broadcasts on both, so no goroutine stays parked on a closed queue.
