//nolint:thelper // ok for tests
package broadcast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/bikechallenge/log"
)

func collect(ch <-chan int) <-chan []int {
	done := make(chan []int)
	go func() {
		got := []int{}
		for v := range ch {
			got = append(got, v)
		}
		done <- got
	}()
	return done
}

func TestBroadcast(t *testing.T) {
	source := make(chan int)
	b := NewBroadcastServer("test", source,
		WithSendTimeout[int](time.Second),
		WithLogger[int](log.Nop()))

	first := collect(b.Subscribe())
	second := collect(b.Subscribe())
	for i := range 3 {
		source <- i
	}
	close(source)

	assert.Equal(t, []int{0, 1, 2}, <-first)
	assert.Equal(t, []int{0, 1, 2}, <-second)

	// subscribing to a stopped server yields a closed channel
	_, ok := <-b.Subscribe()
	assert.False(t, ok)
}

func TestCancelSubscription(t *testing.T) {
	source := make(chan int)
	b := NewBroadcastServer("test", source, WithLogger[int](log.Nop()))
	defer b.Close()

	ch := b.Subscribe()
	b.CancelSubscription(ch)
	_, ok := <-ch
	assert.False(t, ok)
}

func TestSlowSubscriberIsSkipped(t *testing.T) {
	source := make(chan int)
	b := NewBroadcastServer("test", source,
		WithSendTimeout[int](time.Millisecond),
		WithLogger[int](log.Nop()))
	defer b.Close()

	_ = b.Subscribe() // never read
	done := make(chan struct{})
	go func() {
		source <- 1
		source <- 2
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("source blocked by slow subscriber")
	}
}
