package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/songs/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var waterloo = model.TrackFields{Artist: "Abba", Title: "Waterloo", LengthInSeconds: 166, Category: "Pop"}

func TestMemoryStore_Insert(t *testing.T) {
	Convey("Given an empty memory store", t, func() {
		ctx := context.Background()
		store := NewMemoryStore()

		Convey("When listing", func() {
			tracks, err := store.List(ctx)

			Convey("Then it should return an empty, non-nil slice", func() {
				So(err, ShouldBeNil)
				So(tracks, ShouldNotBeNil)
				So(tracks, ShouldBeEmpty)
			})
		})

		Convey("When inserting a track", func() {
			created, err := store.Insert(ctx, waterloo)
			So(err, ShouldBeNil)

			Convey("Then it should get a fresh well-formed id", func() {
				So(created.ID.IsZero(), ShouldBeFalse)
				_, perr := model.ParseTrackID(created.ID.String())
				So(perr, ShouldBeNil)
				So(created.Fields(), ShouldResemble, waterloo)
			})

			Convey("And listing should include it", func() {
				tracks, err := store.List(ctx)
				So(err, ShouldBeNil)
				So(tracks, ShouldResemble, []model.Track{created})
			})
		})

		Convey("When inserting several tracks", func() {
			var ids []model.TrackID
			for i := 0; i < 5; i++ {
				tr, err := store.Insert(ctx, model.TrackFields{Title: fmt.Sprintf("t%d", i)})
				So(err, ShouldBeNil)
				ids = append(ids, tr.ID)
			}

			Convey("Then they should be listed in insertion order", func() {
				tracks, _ := store.List(ctx)
				So(len(tracks), ShouldEqual, 5)
				for i, tr := range tracks {
					So(tr.ID, ShouldResemble, ids[i])
				}
			})
		})
	})
}

func TestMemoryStore_Update(t *testing.T) {
	Convey("Given a store holding one track", t, func() {
		ctx := context.Background()
		store := NewMemoryStore()
		created, _ := store.Insert(ctx, waterloo)

		Convey("When updating it with new values", func() {
			replacement := model.TrackFields{Artist: "ABBA", Title: "Waterloo (Remastered)", LengthInSeconds: 170, Category: ""}
			updated, ok, err := store.UpdateByID(ctx, created.ID, replacement)

			Convey("Then every field should be replaced and the id kept", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(updated.ID, ShouldResemble, created.ID)
				So(updated.Fields(), ShouldResemble, replacement)

				tracks, _ := store.List(ctx)
				So(tracks, ShouldResemble, []model.Track{updated})
			})
		})

		Convey("When updating an unknown id", func() {
			_, ok, err := store.UpdateByID(ctx, model.NewTrackID(), waterloo)

			Convey("Then it should report absence without error", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
				So(store.Len(), ShouldEqual, 1)
			})
		})
	})
}

func TestMemoryStore_Delete(t *testing.T) {
	Convey("Given a store holding three tracks", t, func() {
		ctx := context.Background()
		store := NewMemoryStore()
		a, _ := store.Insert(ctx, model.TrackFields{Title: "a"})
		b, _ := store.Insert(ctx, model.TrackFields{Title: "b"})
		c, _ := store.Insert(ctx, model.TrackFields{Title: "c"})

		Convey("When deleting the middle one twice", func() {
			first, err1 := store.DeleteByID(ctx, b.ID)
			second, err2 := store.DeleteByID(ctx, b.ID)

			Convey("Then the first call succeeds and the second reports absence", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldBeTrue)
				So(second, ShouldBeFalse)
			})

			Convey("And the remaining order should be preserved", func() {
				tracks, _ := store.List(ctx)
				So(tracks, ShouldResemble, []model.Track{a, c})
			})
		})

		Convey("When pinging", func() {
			So(store.Ping(ctx), ShouldBeNil)
		})
	})
}

func TestMemoryStore_Concurrency(t *testing.T) {
	Convey("Given concurrent writers", t, func() {
		ctx := context.Background()
		store := NewMemoryStore()
		const writers = 16
		const perWriter = 50

		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perWriter; i++ {
					tr, err := store.Insert(ctx, waterloo)
					if err != nil {
						return
					}
					if i%2 == 0 {
						_, _ = store.DeleteByID(ctx, tr.ID)
					}
				}
			}()
		}
		wg.Wait()

		Convey("Then every surviving track should be listed exactly once", func() {
			tracks, err := store.List(ctx)
			So(err, ShouldBeNil)
			So(len(tracks), ShouldEqual, writers*perWriter/2)
			seen := make(map[model.TrackID]bool, len(tracks))
			for _, tr := range tracks {
				So(seen[tr.ID], ShouldBeFalse)
				seen[tr.ID] = true
			}
		})
	})
}
