package repositories

import (
	"context"
	"errors"
	"time"

	"food-storefront/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Cuisine Repository
type cuisineRepository struct {
	collection *mongo.Collection
}

func NewCuisineRepository(db *mongo.Database) CuisineRepository {
	return &cuisineRepository{
		collection: db.Collection("cuisines"),
	}
}

func (r *cuisineRepository) SaveCatalog(ctx context.Context, cuisines []models.Cuisine) error {
	if len(cuisines) == 0 {
		return nil
	}

	now := time.Now()
	writes := make([]mongo.WriteModel, 0, len(cuisines))
	for i, cuisine := range cuisines {
		doc := models.NewCuisineDocument(cuisine, i, now)
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": doc.CuisineID}).
			SetReplacement(doc).
			SetUpsert(true))
	}

	_, err := r.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return err
}

func (r *cuisineRepository) GetByID(ctx context.Context, cuisineID string) (*models.Cuisine, error) {
	var doc models.CuisineDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": cuisineID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	cuisine := doc.ToCuisine()
	return &cuisine, nil
}

func (r *cuisineRepository) FindItem(ctx context.Context, itemID string) (*models.Item, error) {
	var doc models.CuisineDocument
	err := r.collection.FindOne(ctx, bson.M{"items.id": itemID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	item, ok := doc.ToCuisine().FindItem(itemID)
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (r *cuisineRepository) List(ctx context.Context, limit, offset int) ([]models.Cuisine, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "position", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []models.CuisineDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	cuisines := make([]models.Cuisine, 0, len(docs))
	for _, doc := range docs {
		cuisines = append(cuisines, doc.ToCuisine())
	}
	return cuisines, nil
}
