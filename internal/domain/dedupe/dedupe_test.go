package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("When a key is recorded for the first time", func() {
			seen := d.SeenAndRecord(ctx, "2544|2024-25")

			So(seen, ShouldBeFalse)
			So(d.Size(), ShouldEqual, 1)

			Convey("Then a second submission of the same key is a duplicate", func() {
				So(d.SeenAndRecord(ctx, "2544|2024-25"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And a different season is not a duplicate", func() {
				So(d.SeenAndRecord(ctx, "2544|2023-24"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 2)
			})
		})

		Convey("When a key is unrecorded", func() {
			d.SeenAndRecord(ctx, "2544|2024-25")
			d.Unrecord(ctx, "2544|2024-25")

			Convey("Then the pair can be submitted again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "2544|2024-25"), ShouldBeFalse)
			})
		})

		Convey("When unrecording a key that was never recorded", func() {
			d.Unrecord(ctx, "missing")
			So(d.Size(), ShouldEqual, 0)
		})
	})

	Convey("Given a bounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

		Convey("When the bound is exceeded", func() {
			for i := 0; i < 4; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("key-%d", i))
			}

			Convey("Then the oldest key was evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "key-0"), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, "key-3"), ShouldBeTrue)
			})
		})
	})

	Convey("Given concurrent submitters", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("When many goroutines race on the same key", func() {
			const goroutines = 32
			var wg sync.WaitGroup
			fresh := make(chan bool, goroutines)

			for i := 0; i < goroutines; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if !d.SeenAndRecord(ctx, "contended") {
						fresh <- true
					}
				}()
			}
			wg.Wait()
			close(fresh)

			Convey("Then exactly one wins", func() {
				So(len(fresh), ShouldEqual, 1)
				So(d.Size(), ShouldEqual, 1)
			})
		})
	})
}
