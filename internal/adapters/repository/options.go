package repository

import "github.com/okian/songs/pkg/logger"

// Option applies a configuration option to a MongoStore.
type Option func(*MongoStore)

// WithLogger sets the logger used for storage failures.
func WithLogger(l logger.Logger) Option {
	return func(s *MongoStore) {
		if l != nil {
			s.logger = l
		}
	}
}
