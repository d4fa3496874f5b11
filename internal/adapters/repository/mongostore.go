package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/okian/songs/internal/domain/model"
	"github.com/okian/songs/pkg/logger"
)

// trackDocument is the stored shape of a track.
type trackDocument struct {
	ID              primitive.ObjectID `bson:"_id"`
	Artist          string             `bson:"artist"`
	Title           string             `bson:"title"`
	LengthInSeconds int32              `bson:"lengthInSeconds"`
	Category        string             `bson:"category"`
}

func newTrackDocument(id model.TrackID, f model.TrackFields) trackDocument {
	return trackDocument{
		ID:              primitive.ObjectID(id),
		Artist:          f.Artist,
		Title:           f.Title,
		LengthInSeconds: f.LengthInSeconds,
		Category:        f.Category,
	}
}

func (d trackDocument) toModel() model.Track {
	return model.Track{
		ID:              model.TrackID(d.ID),
		Artist:          d.Artist,
		Title:           d.Title,
		LengthInSeconds: d.LengthInSeconds,
		Category:        d.Category,
	}
}

// MongoStore is a Store backed by a single MongoDB collection.
// The collection handle is safe for concurrent use.
type MongoStore struct {
	coll   *mongo.Collection
	logger logger.Logger
}

// NewMongoStore wraps coll.
func NewMongoStore(coll *mongo.Collection, opts ...Option) *MongoStore {
	s := &MongoStore{coll: coll}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List implements Store.
func (s *MongoStore) List(ctx context.Context) (tracks []model.Track, err error) {
	start := time.Now()
	defer func() { observe(opList, start, err) }()

	cur, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, s.wrap(ctx, opList, err)
	}
	docs := make([]trackDocument, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, s.wrap(ctx, opList, err)
	}

	tracks = make([]model.Track, 0, len(docs))
	for _, d := range docs {
		tracks = append(tracks, d.toModel())
	}
	return tracks, nil
}

// Insert implements Store.
func (s *MongoStore) Insert(ctx context.Context, fields model.TrackFields) (track model.Track, err error) {
	start := time.Now()
	defer func() { observe(opInsert, start, err) }()

	doc := newTrackDocument(model.NewTrackID(), fields)
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return model.Track{}, s.wrap(ctx, opInsert, err)
	}
	return doc.toModel(), nil
}

// UpdateByID implements Store.
func (s *MongoStore) UpdateByID(ctx context.Context, id model.TrackID, fields model.TrackFields) (track model.Track, ok bool, err error) {
	start := time.Now()
	defer func() { observe(opUpdate, start, err) }()

	filter := bson.D{{Key: "_id", Value: primitive.ObjectID(id)}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "artist", Value: fields.Artist},
		{Key: "title", Value: fields.Title},
		{Key: "lengthInSeconds", Value: fields.LengthInSeconds},
		{Key: "category", Value: fields.Category},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc trackDocument
	err = s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Track{}, false, nil
	}
	if err != nil {
		return model.Track{}, false, s.wrap(ctx, opUpdate, err)
	}
	return doc.toModel(), true, nil
}

// DeleteByID implements Store.
func (s *MongoStore) DeleteByID(ctx context.Context, id model.TrackID) (ok bool, err error) {
	start := time.Now()
	defer func() { observe(opDelete, start, err) }()

	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: primitive.ObjectID(id)}})
	if err != nil {
		return false, s.wrap(ctx, opDelete, err)
	}
	return res.DeletedCount > 0, nil
}

// Ping implements Store.
func (s *MongoStore) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { observe(opPing, start, err) }()

	if err := s.coll.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return s.wrap(ctx, opPing, err)
	}
	return nil
}

func (s *MongoStore) wrap(ctx context.Context, op string, err error) error {
	if s.logger != nil {
		s.logger.Error(ctx, "track store operation failed",
			logger.String("operation", op),
			logger.String("collection", s.coll.Name()),
			logger.Error(err))
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// Connect opens a client for uri and pings the primary. timeout bounds
// both steps when positive.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(uri)
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
		opts.SetConnectTimeout(timeout).SetServerSelectionTimeout(timeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: ping: %w", ErrConnect, err)
	}
	return client, nil
}
