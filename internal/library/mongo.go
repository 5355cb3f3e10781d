package library

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "papers"

// MongoStore keeps one document per paper, keyed by the paper id.
type MongoStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

// NewMongoStore connects to uri and pings the server before returning.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w: %w", ErrStorageUnavailable, err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w: %w", ErrStorageUnavailable, err)
	}
	return &MongoStore{client: client, col: client.Database(database).Collection(mongoCollection)}, nil
}

func (s *MongoStore) List(ctx context.Context) ([]StoredPaper, error) {
	cur, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list papers: %w: %w", ErrStorageUnavailable, err)
	}
	defer cur.Close(ctx)

	papers := []StoredPaper{}
	if err := cur.All(ctx, &papers); err != nil {
		return nil, fmt.Errorf("list papers: %w: %w", ErrStorageUnavailable, err)
	}
	for i := range papers {
		papers[i].AddedAt = papers[i].AddedAt.UTC()
	}
	sortPapers(papers)
	return papers, nil
}

// Save upserts by id; addedAt is only written on insert.
func (s *MongoStore) Save(ctx context.Context, paper StoredPaper) error {
	if err := validateForSave(paper); err != nil {
		return err
	}
	update := bson.M{
		"$set": bson.M{
			"title":        paper.Title,
			"authors":      paper.Authors,
			"year":         paper.Year,
			"institution":  paper.Institution,
			"keywords":     paper.Keywords,
			"summary":      paper.Summary,
			"doi":          paper.DOI,
			"folder":       paper.Folder,
			"raw_analysis": paper.RawAnalysis,
		},
		"$setOnInsert": bson.M{"addedAt": paper.AddedAt},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.col.UpdateOne(ctx, bson.M{"_id": paper.ID}, update, opts); err != nil {
		return fmt.Errorf("save paper %s: %w: %w", paper.ID, ErrStorageUnavailable, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete paper %s: %w: %w", id, ErrStorageUnavailable, err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
