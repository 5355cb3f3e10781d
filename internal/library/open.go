package library

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Options selects and configures a storage backend.
type Options struct {
	Backend       string
	Path          string
	MongoURI      string
	MongoDatabase string
}

// Open builds the store named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendJSON:
		return NewJSONStore(opts.Path)
	case BackendSQLite:
		return NewSQLiteStore(opts.Path)
	case BackendMongo:
		database := opts.MongoDatabase
		if database == "" {
			database = "scholarlens"
		}
		return NewMongoStore(ctx, opts.MongoURI, database)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
