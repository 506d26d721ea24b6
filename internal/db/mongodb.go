package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TypingSentence mirrors the SpeedScript.typingsentences document schema.
type TypingSentence struct {
	Story           string `bson:"story"`
	TotalCharacters int    `bson:"totalCharacters"`
	TotalWords      int    `bson:"totalWords"`
	Hash            string `bson:"hash"`
}

// Store serves race texts out of MongoDB.
type Store struct {
	client *mongo.Client
}

func Connect(ctx context.Context, uri string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return &Store{client: client}, nil
}

func (s *Store) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// RandomText samples one sentence and caps it at maxWords words.
func (s *Store) RandomText(ctx context.Context, maxWords int) (string, error) {
	collection := s.client.Database("SpeedScript").Collection("typingsentences")

	pipeline := mongo.Pipeline{
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: 1}}}},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return "", err
	}
	defer cursor.Close(ctx)

	if cursor.Next(ctx) {
		var sentence TypingSentence
		if err := cursor.Decode(&sentence); err != nil {
			return "", err
		}
		return TruncateWords(sentence.Story, maxWords), nil
	}
	return "", mongo.ErrNoDocuments
}
