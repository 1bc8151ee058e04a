package todo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CollectionName is the MongoDB collection todos are stored in.
const CollectionName = "todos"

// MongoRepository implements Repository on a MongoDB collection.
type MongoRepository struct {
	collection *mongo.Collection
}

// NewMongoRepository creates a repository backed by the todos collection of
// the given database.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		collection: db.Collection(CollectionName),
	}
}

// todoDoc is the stored document shape. The ObjectID maps to Todo.ID as its
// hex form; that hex string is what reply buttons embed and what the
// keyword overlay parses back.
type todoDoc struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	UserID    string        `bson:"userId"`
	Title     string        `bson:"title"`
	Status    Status        `bson:"status"`
	CreatedAt time.Time     `bson:"createdAt"`
}

func (d todoDoc) toTodo() Todo {
	return Todo{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Title:     d.Title,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
	}
}

// Create inserts the todo and returns it with the assigned ObjectID hex.
func (r *MongoRepository) Create(ctx context.Context, t Todo) (Todo, error) {
	doc := todoDoc{
		UserID:    t.UserID,
		Title:     t.Title,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return Todo{}, fmt.Errorf("failed to insert todo: %w", err)
	}

	id, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return Todo{}, fmt.Errorf("unexpected inserted ID type %T", result.InsertedID)
	}

	t.ID = id.Hex()
	return t, nil
}

// FindByStatus returns the user's todos with the given status, sorted
// ascending by CreatedAt.
func (r *MongoRepository) FindByStatus(ctx context.Context, userID string, status Status) ([]Todo, error) {
	filter := bson.M{
		"userId": userID,
		"status": status,
	}
	return r.find(ctx, filter)
}

// FindByRange returns the user's todos with the given status whose
// CreatedAt falls within [start, end), sorted ascending by CreatedAt.
func (r *MongoRepository) FindByRange(
	ctx context.Context,
	userID string,
	status Status,
	start, end time.Time,
) ([]Todo, error) {
	filter := bson.M{
		"userId": userID,
		"status": status,
		"createdAt": bson.M{
			"$gte": start,
			"$lt":  end,
		},
	}
	return r.find(ctx, filter)
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]Todo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}

	var docs []todoDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode todos: %w", err)
	}

	todos := make([]Todo, 0, len(docs))
	for _, doc := range docs {
		todos = append(todos, doc.toTodo())
	}
	return todos, nil
}

// UpdateStatus sets the status of the identified todo and returns the
// updated document.
func (r *MongoRepository) UpdateStatus(ctx context.Context, id string, status Status) (Todo, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		// Not a valid ObjectID, so it cannot name a stored todo.
		return Todo{}, ErrNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc todoDoc
	err = r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"status": status}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Todo{}, ErrNotFound
		}
		return Todo{}, fmt.Errorf("failed to update todo status: %w", err)
	}

	return doc.toTodo(), nil
}

// Delete removes the identified todo and returns it.
func (r *MongoRepository) Delete(ctx context.Context, id string) (Todo, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return Todo{}, ErrNotFound
	}

	var doc todoDoc
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Todo{}, ErrNotFound
		}
		return Todo{}, fmt.Errorf("failed to delete todo: %w", err)
	}

	return doc.toTodo(), nil
}
