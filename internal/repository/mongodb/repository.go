package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/vinstock/internal/domain/models"
	"github.com/mamadbah2/vinstock/internal/repository"
)

const (
	slotsCollection   = "slots"
	digestsCollection = "daily_digests"
)

type slotDocument struct {
	Slot      string    `bson:"_id"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoDBRepository stores slots as one document each and archives the
// daily digests.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository connects and pings the cluster.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{client: client, dbName: dbName}, nil
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// Get loads the blob stored under slot.
func (r *MongoDBRepository) Get(ctx context.Context, slot string) ([]byte, error) {
	var doc slotDocument
	err := r.collection(slotsCollection).FindOne(ctx, bson.M{"_id": slot}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %s: %w", slot, err)
	}
	return []byte(doc.Payload), nil
}

// Put upserts the blob stored under slot.
func (r *MongoDBRepository) Put(ctx context.Context, slot string, payload []byte) error {
	update := bson.M{"$set": bson.M{"payload": string(payload), "updated_at": time.Now().UTC()}}
	_, err := r.collection(slotsCollection).UpdateOne(ctx, bson.M{"_id": slot}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save slot %s: %w", slot, err)
	}
	return nil
}

// SaveDailyDigest archives a generated digest.
func (r *MongoDBRepository) SaveDailyDigest(ctx context.Context, digest models.DailyDigest) error {
	_, err := r.collection(digestsCollection).InsertOne(ctx, digest)
	if err != nil {
		return fmt.Errorf("failed to insert daily digest: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
