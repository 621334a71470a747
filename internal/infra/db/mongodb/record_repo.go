package mongodb

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domain "github.com/swasthya-ai/swasthya/internal/domain/analysis"
)

const collectionName = "health_analyses"

// recordDoc is the stored document shape. created_at uses the server's
// native instant type and is converted back to UTC on read; the result
// payload is kept as the original JSON text so it round-trips untouched.
type recordDoc struct {
	RecordID  string    `bson:"record_id"`
	UserID    string    `bson:"user_id"`
	Type      string    `bson:"analysis_type"`
	MediaURL  string    `bson:"media_url,omitempty"`
	Result    string    `bson:"result_json"`
	CreatedAt time.Time `bson:"created_at"`
}

type RecordRepository struct {
	coll *mongo.Collection
}

func NewRecordRepository(db *mongo.Database) *RecordRepository {
	return &RecordRepository{coll: db.Collection(collectionName)}
}

// EnsureIndexes creates the user_id/created_at index used by List.
func (r *RecordRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

// Save appends one immutable record. InsertOne is atomic, so concurrent
// appends for one user never clobber each other.
func (r *RecordRepository) Save(ctx context.Context, rec *domain.Record) error {
	if strings.TrimSpace(rec.UserID) == "" {
		return domain.ErrEmptyUserID
	}
	createdAt := rec.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	result := string(rec.Result)
	if strings.TrimSpace(result) == "" {
		result = "{}"
	}
	_, err := r.coll.InsertOne(ctx, recordDoc{
		RecordID:  string(rec.ID),
		UserID:    rec.UserID,
		Type:      string(rec.Type),
		MediaURL:  rec.MediaURL,
		Result:    result,
		CreatedAt: createdAt,
	})
	return err
}

// List runs the one query shape the store supports: equality on user_id,
// newest-first. The _id tie break follows insertion order.
func (r *RecordRepository) List(ctx context.Context, userID string) ([]*domain.Record, error) {
	out := []*domain.Record{}
	if strings.TrimSpace(userID) == "" {
		return out, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc recordDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, &domain.Record{
			ID:        domain.RecordID(doc.RecordID),
			UserID:    doc.UserID,
			Type:      domain.Type(doc.Type),
			Timestamp: doc.CreatedAt.UTC(),
			MediaURL:  doc.MediaURL,
			Result:    json.RawMessage(doc.Result),
		})
	}
	return out, cur.Err()
}

// Ping reports whether the backing deployment is reachable.
func (r *RecordRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}
