package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cdainvest/portal-system/internal/core/domain"
)

const documentCollection = "documents"

type MongoDocumentRepository struct {
	coll *mongo.Collection
}

func NewDocumentRepository(db *mongo.Database) *MongoDocumentRepository {
	return &MongoDocumentRepository{coll: db.Collection(documentCollection)}
}

type mongoDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	FileURL     string             `bson:"file_url"`
	Category    string             `bson:"category,omitempty"`
	UploadedBy  string             `bson:"uploaded_by,omitempty"`
	CreatedAt   int64              `bson:"created_at"`
	UpdatedAt   int64              `bson:"updated_at"`
}

func (md mongoDocument) toDomain() *domain.Document {
	return &domain.Document{
		ID:          md.ID.Hex(),
		Title:       md.Title,
		Description: md.Description,
		FileURL:     md.FileURL,
		Category:    md.Category,
		UploadedBy:  md.UploadedBy,
		CreatedAt:   unixToTime(md.CreatedAt),
		UpdatedAt:   unixToTime(md.UpdatedAt),
	}
}

func (r *MongoDocumentRepository) Insert(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	md := mongoDocument{
		Title:       doc.Title,
		Description: doc.Description,
		FileURL:     doc.FileURL,
		Category:    doc.Category,
		UploadedBy:  doc.UploadedBy,
		CreatedAt:   doc.CreatedAt.Unix(),
		UpdatedAt:   doc.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, md)
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}

	md.ID = res.InsertedID.(primitive.ObjectID)
	return md.toDomain(), nil
}

func (r *MongoDocumentRepository) FindByID(ctx context.Context, id string) (*domain.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrDocumentNotFound
	}

	var md mongoDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&md); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	return md.toDomain(), nil
}

func (r *MongoDocumentRepository) List(ctx context.Context, category string, limit, offset int64) ([]domain.Document, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer cur.Close(ctx)

	var docs []domain.Document
	for cur.Next(ctx) {
		var md mongoDocument
		if err := cur.Decode(&md); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		docs = append(docs, *md.toDomain())
	}
	return docs, cur.Err()
}

func (r *MongoDocumentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrDocumentNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *MongoDocumentRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
