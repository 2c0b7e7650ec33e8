package persistence

import (
	"context"

	"tube-catalog/domain/model"
	"tube-catalog/infrastructure/logger"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// VideoSearchRequestRepository logs search requests as Mongo documents.
// The log is append-mostly and schema-free, which is why it lives in the
// document store rather than Postgres.

type VideoSearchRequestRepository struct {
	mongoDb *mongo.Client
}

func NewVideoSearchRequestRepository(db *mongo.Client) *VideoSearchRequestRepository {
	return &VideoSearchRequestRepository{mongoDb: db}
}

func (r *VideoSearchRequestRepository) collection() *mongo.Collection {
	return r.mongoDb.Database("tube_catalog").Collection("video_search_requests")
}

func (r *VideoSearchRequestRepository) Save(ctx context.Context, req *model.VideoSearchRequest) error {
	if r.mongoDb == nil {
		logger.GetLogger().Info("MongoDB client is nil - skipping search request log")
		return nil
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection().ReplaceOne(ctx, bson.D{{Key: "_id", Value: req.ID}}, req, opts)
	return err
}

func (r *VideoSearchRequestRepository) FindAll(ctx context.Context) ([]model.VideoSearchRequest, error) {
	if r.mongoDb == nil {
		return nil, nil
	}
	cursor, err := r.collection().Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while closing cursor")
		}
	}()

	var out []model.VideoSearchRequest
	for cursor.Next(ctx) {
		var req model.VideoSearchRequest
		if err := cursor.Decode(&req); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while decoding")
			continue
		}
		out = append(out, req)
	}
	return out, cursor.Err()
}

func (r *VideoSearchRequestRepository) GetByID(ctx context.Context, id string) (*model.VideoSearchRequest, error) {
	if r.mongoDb == nil {
		return nil, nil
	}
	var req model.VideoSearchRequest
	err := r.collection().FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *VideoSearchRequestRepository) DeleteByID(ctx context.Context, id string) error {
	if r.mongoDb == nil {
		return nil
	}
	_, err := r.collection().DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	return err
}
