package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func job(id string) queue.Job {
	return queue.Job{JobID: id, PlayerID: 2544, PlayerName: "LeBron James", Season: "2024-25", SampleSize: 15}
}

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a bounded queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))

		Convey("When enqueuing within capacity", func() {
			So(q.Enqueue(ctx, job("a")), ShouldBeTrue)
			So(q.Enqueue(ctx, job("b")), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 2)

			Convey("Then the next enqueue sees backpressure", func() {
				So(q.Enqueue(ctx, job("c")), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When dequeuing", func() {
			So(q.Enqueue(ctx, job("a")), ShouldBeTrue)
			ch := q.Dequeue(ctx)

			select {
			case got := <-ch:
				So(got.JobID, ShouldEqual, "a")
			case <-time.After(time.Second):
				t.Fatal("timed out waiting for job")
			}
		})

		Convey("When the queue is closed", func() {
			So(q.Enqueue(ctx, job("a")), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueue is rejected", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, job("b")), ShouldBeFalse)
			})

			Convey("Then buffered jobs drain and the channel closes", func() {
				ch := q.Dequeue(ctx)
				got, ok := <-ch
				So(ok, ShouldBeTrue)
				So(got.JobID, ShouldEqual, "a")

				_, ok = <-ch
				So(ok, ShouldBeFalse)
			})

			Convey("Then closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})

		Convey("When the consumer context is cancelled", func() {
			consumerCtx, cancel := context.WithCancel(ctx)
			ch := q.Dequeue(consumerCtx)
			cancel()

			Convey("Then the dequeue channel closes", func() {
				select {
				case _, ok := <-ch:
					So(ok, ShouldBeFalse)
				case <-time.After(time.Second):
					t.Fatal("dequeue channel did not close")
				}
			})
		})
	})
}
