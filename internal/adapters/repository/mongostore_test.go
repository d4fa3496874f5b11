package repository

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/okian/songs/internal/domain/model"
)

const mockNamespace = "SongDb.Songs"

func trackDoc(id primitive.ObjectID, f model.TrackFields) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "artist", Value: f.Artist},
		{Key: "title", Value: f.Title},
		{Key: "lengthInSeconds", Value: f.LengthInSeconds},
		{Key: "category", Value: f.Category},
	}
}

func TestMongoStore_List(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns documents in storage order", func(mt *mtest.T) {
		id1, id2 := primitive.NewObjectID(), primitive.NewObjectID()
		second := model.TrackFields{Artist: "Queen", Title: "Bohemian Rhapsody", LengthInSeconds: 354, Category: "Rock"}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mockNamespace, mtest.FirstBatch,
			trackDoc(id1, waterloo), trackDoc(id2, second)))

		tracks, err := NewMongoStore(mt.Coll).List(context.Background())

		Convey("Then both tracks should be decoded", mt.T, func() {
			So(err, ShouldBeNil)
			So(tracks, ShouldResemble, []model.Track{
				waterloo.WithID(model.TrackID(id1)),
				second.WithID(model.TrackID(id2)),
			})
		})
	})

	mt.Run("returns an empty slice for an empty collection", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mockNamespace, mtest.FirstBatch))

		tracks, err := NewMongoStore(mt.Coll).List(context.Background())

		Convey("Then the slice should be empty but not nil", mt.T, func() {
			So(err, ShouldBeNil)
			So(tracks, ShouldNotBeNil)
			So(tracks, ShouldBeEmpty)
		})
	})

	mt.Run("wraps driver failures", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "command find requires authentication",
		}))

		tracks, err := NewMongoStore(mt.Coll).List(context.Background())

		Convey("Then the error should be a storage error", mt.T, func() {
			So(tracks, ShouldBeNil)
			So(errors.Is(err, ErrStorage), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "requires authentication")
		})
	})
}

func TestMongoStore_Insert(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns a new id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		created, err := NewMongoStore(mt.Coll).Insert(context.Background(), waterloo)

		Convey("Then the stored track should carry the fields and a fresh id", mt.T, func() {
			So(err, ShouldBeNil)
			So(created.ID.IsZero(), ShouldBeFalse)
			So(created.Fields(), ShouldResemble, waterloo)
		})
	})

	mt.Run("wraps write failures", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := NewMongoStore(mt.Coll).Insert(context.Background(), waterloo)

		Convey("Then the error should be a storage error", mt.T, func() {
			So(errors.Is(err, ErrStorage), ShouldBeTrue)
		})
	})
}

func TestMongoStore_UpdateByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns the post-update document", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		replacement := model.TrackFields{Artist: "Abba", Title: "Waterloo (Remastered)", LengthInSeconds: 166, Category: "Pop"}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: trackDoc(oid, replacement)},
		))

		updated, ok, err := NewMongoStore(mt.Coll).UpdateByID(context.Background(), model.TrackID(oid), replacement)

		Convey("Then the id should be unchanged and fields replaced", mt.T, func() {
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(updated, ShouldResemble, replacement.WithID(model.TrackID(oid)))
		})
	})

	mt.Run("reports absence for an unknown id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, ok, err := NewMongoStore(mt.Coll).UpdateByID(context.Background(), model.NewTrackID(), waterloo)

		Convey("Then it should not be an error", mt.T, func() {
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestMongoStore_DeleteByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("first delete removes, second reports absence", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)
		store := NewMongoStore(mt.Coll)
		id := model.NewTrackID()

		first, err1 := store.DeleteByID(context.Background(), id)
		second, err2 := store.DeleteByID(context.Background(), id)

		Convey("Then the results should differ", mt.T, func() {
			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)
			So(first, ShouldBeTrue)
			So(second, ShouldBeFalse)
		})
	})
}

func TestMongoStore_Ping(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("succeeds when the server answers", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := NewMongoStore(mt.Coll).Ping(context.Background())

		Convey("Then no error should be returned", mt.T, func() {
			So(err, ShouldBeNil)
		})
	})
}
