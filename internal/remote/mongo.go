package remote

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/bassista/go_storefront/internal/logger"
)

// MongoStore is a Store backed by a MongoDB database.
// Documents keep their identifier in _id; records expose it as "id".
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to uri and selects database. The connection is verified with a ping.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		// keep the client: the driver reconnects on its own once the server is reachable
		logger.WithComponent("mongo").Warnf("initial ping failed: %v", err)
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

func (s *MongoStore) Find(ctx context.Context, collection string, order Order) ([]Record, error) {
	opts := options.Find()
	if order.Field != "" {
		dir := 1
		if order.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: order.Field, Value: dir}})
	}
	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}
	out := make([]Record, 0, len(docs))
	for _, doc := range docs {
		out = append(out, fromDocument(doc))
	}
	return out, nil
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (Record, bool, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, idFilter(id)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return fromDocument(doc), true, nil
}

// Upsert replaces an existing document (string or ObjectID key) or inserts a new one keyed by id.
func (s *MongoStore) Upsert(ctx context.Context, collection, id string, rec Record) error {
	coll := s.db.Collection(collection)
	if id == "" {
		res, err := coll.InsertOne(ctx, toDocument(rec))
		if err != nil {
			return fmt.Errorf("insert %s: %w", collection, err)
		}
		logger.WithComponent("mongo").Debugf("inserted %s/%v", collection, res.InsertedID)
		return nil
	}

	res, err := coll.ReplaceOne(ctx, idFilter(id), toDocument(rec))
	if err != nil {
		return fmt.Errorf("replace %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	doc := toDocument(rec)
	doc["_id"] = id
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	set := bson.M{}
	for k, v := range fields {
		if k == "id" || k == "_id" {
			continue
		}
		set[k] = v
	}
	if len(set) == 0 {
		return nil
	}
	_, err := s.db.Collection(collection).UpdateOne(ctx, idFilter(id), bson.M{"$set": set}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("merge %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.db.Collection(collection).DeleteOne(ctx, idFilter(id)); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Watch opens a change stream; it requires a replica set or sharded cluster.
func (s *MongoStore) Watch(ctx context.Context, collection string) (<-chan Event, error) {
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := s.db.Collection(collection).Watch(ctx, mongo.Pipeline{}, opts)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", collection, err)
	}

	out := make(chan Event, 16)
	go func() {
		defer close(out)
		defer stream.Close(context.Background())
		for stream.Next(ctx) {
			var change struct {
				OperationType string `bson:"operationType"`
				DocumentKey   bson.M `bson:"documentKey"`
				FullDocument  bson.M `bson:"fullDocument"`
			}
			if err := stream.Decode(&change); err != nil {
				logger.WithComponent("mongo").Warnf("decode change event: %v", err)
				continue
			}
			ev := Event{ID: idString(change.DocumentKey["_id"])}
			switch change.OperationType {
			case "delete":
				ev.Type = EventDelete
			case "insert", "update", "replace":
				ev.Type = EventUpsert
				if change.FullDocument != nil {
					ev.Record = fromDocument(change.FullDocument)
				}
			default:
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			logger.WithComponent("mongo").Warnf("change stream on %s ended: %v", collection, err)
		}
	}()
	return out, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// idFilter matches id stored either as a string or, when it is a valid hex, as an ObjectID.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}

func toDocument(rec Record) bson.M {
	doc := bson.M{}
	for k, v := range rec {
		if k == "id" || k == "_id" {
			continue
		}
		doc[k] = v
	}
	return doc
}

func fromDocument(doc bson.M) Record {
	rec := Record{}
	for k, v := range doc {
		if k == "_id" {
			rec["id"] = idString(v)
			continue
		}
		rec[k] = normalizeBSON(v)
	}
	return rec
}

func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

// normalizeBSON converts driver container types into plain maps and slices.
func normalizeBSON(v any) any {
	switch val := v.(type) {
	case bson.M:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeBSON(item)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(val))
		for _, e := range val {
			out[e.Key] = normalizeBSON(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeBSON(item)
		}
		return out
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC().Format("2006-01-02T15:04:05.000Z07:00")
	default:
		return val
	}
}
