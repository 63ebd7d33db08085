// Package mongo stores one document per identity, keyed by the identity's
// persistence key.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/julianstephens/daycount/internal/constants"
	"github.com/julianstephens/daycount/internal/models"
	"github.com/julianstephens/daycount/internal/storage"
)

const (
	metaCollection = "meta"
	markerID       = "schema"
)

type document struct {
	Key        string             `bson:"_id"`
	Countdowns []models.Countdown `bson:"countdowns"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

type Store struct {
	uri    string
	client *mongodrv.Client
}

func New(uri string) *Store {
	return &Store{uri: uri}
}

// IsConnString reports whether s is a mongodb:// or mongodb+srv:// URI.
func IsConnString(s string) bool {
	return strings.HasPrefix(s, "mongodb://") || strings.HasPrefix(s, "mongodb+srv://")
}

func (s *Store) connect() error {
	ctx, cancel := context.WithTimeout(context.Background(), constants.RemoteTimeout)
	defer cancel()

	client, err := mongodrv.Connect(ctx, options.Client().ApplyURI(s.uri))
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("mongo ping: %w", err)
	}
	s.client = client
	return nil
}

func (s *Store) collection(name string) *mongodrv.Collection {
	return s.client.Database(constants.MongoDatabaseName).Collection(name)
}

func (s *Store) Init() error {
	if s.client == nil {
		if err := s.connect(); err != nil {
			return err
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.RemoteTimeout)
	defer cancel()

	_, err := s.collection(metaCollection).ReplaceOne(ctx,
		bson.M{"_id": markerID},
		bson.M{"_id": markerID, "version": constants.Version},
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to write schema marker: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.client != nil {
		return nil
	}
	if err := s.connect(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.RemoteTimeout)
	defer cancel()

	err := s.collection(metaCollection).FindOne(ctx, bson.M{"_id": markerID}).Err()
	if errors.Is(err, mongodrv.ErrNoDocuments) {
		_ = s.Close()
		return fmt.Errorf("storage not initialized, run 'daycount init' first")
	}
	if err != nil {
		return fmt.Errorf("failed to read schema marker: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.RemoteTimeout)
	defer cancel()
	err := s.client.Disconnect(ctx)
	s.client = nil
	return err
}

func (s *Store) LoadCountdowns(identity string) ([]models.Countdown, bool, error) {
	if s.client == nil {
		return nil, false, storage.ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.RemoteTimeout)
	defer cancel()

	var doc document
	err := s.collection(constants.MongoCollectionName).FindOne(ctx, bson.M{"_id": storage.Key(identity)}).Decode(&doc)
	if errors.Is(err, mongodrv.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read countdowns: %w", err)
	}
	if doc.Countdowns == nil {
		doc.Countdowns = []models.Countdown{}
	}
	return doc.Countdowns, true, nil
}

func (s *Store) SaveCountdowns(identity string, list []models.Countdown) error {
	if s.client == nil {
		return storage.ErrNotLoaded
	}
	if list == nil {
		list = []models.Countdown{}
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.RemoteTimeout)
	defer cancel()

	key := storage.Key(identity)
	doc := document{Key: key, Countdowns: list, UpdatedAt: time.Now().UTC()}
	_, err := s.collection(constants.MongoCollectionName).ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save countdowns: %w", err)
	}
	return nil
}

func (s *Store) ListIdentities() ([]string, error) {
	if s.client == nil {
		return nil, storage.ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.RemoteTimeout)
	defer cancel()

	filter := bson.M{"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(constants.CountdownKeyPrefix)}}
	keys, err := s.collection(constants.MongoCollectionName).Distinct(ctx, "_id", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list identities: %w", err)
	}

	var ids []string
	for _, k := range keys {
		key, ok := k.(string)
		if !ok {
			continue
		}
		if id, ok := storage.IdentityFromKey(key); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) GetConfigPath() string {
	return "mongodb"
}
