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

const (
	contactCollection  = "contact_messages"
	profileCollection  = "investment_profiles"
	downloadCollection = "downloads"
)

func listOpts(limit, offset int64) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)
}

// ── Contact messages ──

type MongoContactRepository struct {
	coll *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *MongoContactRepository {
	return &MongoContactRepository{coll: db.Collection(contactCollection)}
}

type mongoContact struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Phone     string             `bson:"phone,omitempty"`
	Message   string             `bson:"message"`
	CreatedAt int64              `bson:"created_at"`
}

func (r *MongoContactRepository) Insert(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error) {
	mc := mongoContact{
		Name:      msg.Name,
		Email:     msg.Email,
		Phone:     msg.Phone,
		Message:   msg.Message,
		CreatedAt: msg.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, mc)
	if err != nil {
		return nil, fmt.Errorf("insert contact: %w", err)
	}

	out := *msg
	out.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &out, nil
}

func (r *MongoContactRepository) List(ctx context.Context, limit, offset int64) ([]domain.ContactMessage, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, listOpts(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer cur.Close(ctx)

	var msgs []domain.ContactMessage
	for cur.Next(ctx) {
		var mc mongoContact
		if err := cur.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode contact: %w", err)
		}
		msgs = append(msgs, domain.ContactMessage{
			ID:        mc.ID.Hex(),
			Name:      mc.Name,
			Email:     mc.Email,
			Phone:     mc.Phone,
			Message:   mc.Message,
			CreatedAt: unixToTime(mc.CreatedAt),
		})
	}
	return msgs, cur.Err()
}

func (r *MongoContactRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

// ── Investment profiles ──

type MongoProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *MongoProfileRepository {
	return &MongoProfileRepository{coll: db.Collection(profileCollection)}
}

type mongoProfile struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	Phone        string             `bson:"phone,omitempty"`
	RiskAppetite string             `bson:"risk_appetite,omitempty"`
	BudgetRange  string             `bson:"budget_range,omitempty"`
	Horizon      string             `bson:"horizon,omitempty"`
	CreatedAt    int64              `bson:"created_at"`
}

func (r *MongoProfileRepository) Insert(ctx context.Context, profile *domain.InvestmentProfile) (*domain.InvestmentProfile, error) {
	mp := mongoProfile{
		Name:         profile.Name,
		Email:        profile.Email,
		Phone:        profile.Phone,
		RiskAppetite: profile.RiskAppetite,
		BudgetRange:  profile.BudgetRange,
		Horizon:      profile.Horizon,
		CreatedAt:    profile.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, mp)
	if err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}

	out := *profile
	out.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &out, nil
}

func (r *MongoProfileRepository) List(ctx context.Context, limit, offset int64) ([]domain.InvestmentProfile, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, listOpts(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer cur.Close(ctx)

	var profiles []domain.InvestmentProfile
	for cur.Next(ctx) {
		var mp mongoProfile
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		profiles = append(profiles, domain.InvestmentProfile{
			ID:           mp.ID.Hex(),
			Name:         mp.Name,
			Email:        mp.Email,
			Phone:        mp.Phone,
			RiskAppetite: mp.RiskAppetite,
			BudgetRange:  mp.BudgetRange,
			Horizon:      mp.Horizon,
			CreatedAt:    unixToTime(mp.CreatedAt),
		})
	}
	return profiles, cur.Err()
}

func (r *MongoProfileRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

// ── Download records ──

type MongoDownloadRepository struct {
	coll *mongo.Collection
}

func NewDownloadRepository(db *mongo.Database) *MongoDownloadRepository {
	return &MongoDownloadRepository{coll: db.Collection(downloadCollection)}
}

type mongoDownload struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	DocumentID string             `bson:"document_id"`
	UserEmail  string             `bson:"user_email"`
	CreatedAt  int64              `bson:"created_at"`
}

func (r *MongoDownloadRepository) Insert(ctx context.Context, rec *domain.DownloadRecord) error {
	md := mongoDownload{
		DocumentID: rec.DocumentID,
		UserEmail:  rec.UserEmail,
		CreatedAt:  rec.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, md); err != nil {
		return fmt.Errorf("insert download: %w", err)
	}
	return nil
}

func (r *MongoDownloadRepository) List(ctx context.Context, limit, offset int64) ([]domain.DownloadRecord, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, listOpts(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("list downloads: %w", err)
	}
	defer cur.Close(ctx)

	var recs []domain.DownloadRecord
	for cur.Next(ctx) {
		var md mongoDownload
		if err := cur.Decode(&md); err != nil {
			return nil, fmt.Errorf("decode download: %w", err)
		}
		recs = append(recs, domain.DownloadRecord{
			ID:         md.ID.Hex(),
			DocumentID: md.DocumentID,
			UserEmail:  md.UserEmail,
			CreatedAt:  unixToTime(md.CreatedAt),
		})
	}
	return recs, cur.Err()
}

func (r *MongoDownloadRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
