package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repository "github.com/okian/songs/internal/adapters/repository"
	service "github.com/okian/songs/internal/app"
	"github.com/okian/songs/internal/domain/model"
	"github.com/okian/songs/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var waterloo = model.TrackFields{Artist: "Abba", Title: "Waterloo", LengthInSeconds: 166, Category: "Pop"}

// failingStore returns errStore from every operation.
type failingStore struct{}

var errStore = errors.New("connection reset")

func (failingStore) List(context.Context) ([]model.Track, error) { return nil, errStore }
func (failingStore) Insert(context.Context, model.TrackFields) (model.Track, error) {
	return model.Track{}, errStore
}
func (failingStore) UpdateByID(context.Context, model.TrackID, model.TrackFields) (model.Track, bool, error) {
	return model.Track{}, false, errStore
}
func (failingStore) DeleteByID(context.Context, model.TrackID) (bool, error) { return false, errStore }
func (failingStore) Ping(context.Context) error                              { return errStore }

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should report the default mongo settings", func() {
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["backend"], ShouldEqual, "mongo")
			So(stats["database"], ShouldEqual, "SongDb")
			So(stats["collection"], ShouldEqual, "Songs")
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithBackend("memory"),
			service.WithDatabase("Music"),
			service.WithCollection("Tracks"),
			service.WithMongoURI("mongodb://db:27017"),
			service.WithConnectTimeout(time.Second),
			service.WithLogger(logger.Named("test")),
		)

		Convey("Then the options should be applied", func() {
			stats := svc.GetStats()
			So(stats["backend"], ShouldEqual, "memory")
			So(stats["database"], ShouldEqual, "Music")
			So(stats["collection"], ShouldEqual, "Tracks")
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a memory-backed service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithBackend("memory"))

		Convey("When calling operations before Start", func() {
			_, err := svc.ListTracks(ctx)

			Convey("Then they should fail with ErrNotStarted", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				So(errors.Is(svc.Ping(ctx), service.ErrNotStarted), ShouldBeTrue)
			})
		})

		Convey("When starting twice and stopping", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, true)
			So(svc.Ping(ctx), ShouldBeNil)

			So(svc.Stop(ctx), ShouldBeNil)

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
				So(svc.Stop(ctx), ShouldBeNil)
			})
		})
	})

	Convey("Given a service with an unknown backend", t, func() {
		svc := service.New(service.WithBackend("cassandra"))

		Convey("When starting", func() {
			err := svc.Start(context.Background())

			Convey("Then it should fail", func() {
				So(errors.Is(err, repository.ErrUnknownBackend), ShouldBeTrue)
			})
		})
	})

	Convey("Given a mongo service pointing at a closed port", t, func() {
		svc := service.New(
			service.WithMongoURI("mongodb://127.0.0.1:1/?connect=direct"),
			service.WithConnectTimeout(200*time.Millisecond),
		)

		Convey("When starting", func() {
			err := svc.Start(context.Background())

			Convey("Then it should fail to connect", func() {
				So(errors.Is(err, repository.ErrConnect), ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_TrackOperations(t *testing.T) {
	Convey("Given a started service over a memory store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		svc := service.New(service.WithStore(store))
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		Convey("When creating a track", func() {
			created, err := svc.CreateTrack(ctx, waterloo)
			So(err, ShouldBeNil)

			Convey("Then listing should include it", func() {
				tracks, err := svc.ListTracks(ctx)
				So(err, ShouldBeNil)
				So(tracks, ShouldResemble, []model.Track{created})
			})

			Convey("And updating it should replace the fields", func() {
				retitled := waterloo
				retitled.Title = "Waterloo (Remastered)"
				updated, ok, err := svc.UpdateTrack(ctx, created.ID, retitled)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(updated.ID, ShouldResemble, created.ID)
				So(updated.Title, ShouldEqual, "Waterloo (Remastered)")
			})

			Convey("And deleting it twice should succeed then report absence", func() {
				ok, err := svc.DeleteTrack(ctx, created.ID)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)

				ok, err = svc.DeleteTrack(ctx, created.ID)
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When updating an unknown track", func() {
			_, ok, err := svc.UpdateTrack(ctx, model.NewTrackID(), waterloo)

			Convey("Then it should report absence", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When stopping the service", func() {
			So(svc.Stop(ctx), ShouldBeNil)

			Convey("Then an injected store should survive a restart", func() {
				_, err := store.Insert(ctx, waterloo)
				So(err, ShouldBeNil)
				So(svc.Start(ctx), ShouldBeNil)
				tracks, err := svc.ListTracks(ctx)
				So(err, ShouldBeNil)
				So(len(tracks), ShouldEqual, 1)
			})
		})
	})
}

func TestService_StorageErrors(t *testing.T) {
	Convey("Given a service whose store fails", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithStore(failingStore{}))
		So(svc.Start(ctx), ShouldBeNil)

		Convey("Then every operation should propagate the error", func() {
			_, err := svc.ListTracks(ctx)
			So(errors.Is(err, errStore), ShouldBeTrue)

			_, err = svc.CreateTrack(ctx, waterloo)
			So(errors.Is(err, errStore), ShouldBeTrue)

			_, _, err = svc.UpdateTrack(ctx, model.NewTrackID(), waterloo)
			So(errors.Is(err, errStore), ShouldBeTrue)

			_, err = svc.DeleteTrack(ctx, model.NewTrackID())
			So(errors.Is(err, errStore), ShouldBeTrue)

			So(errors.Is(svc.Ping(ctx), errStore), ShouldBeTrue)
		})
	})
}
