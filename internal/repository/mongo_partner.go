package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/gharseva/gharseva-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// partnerDoc wraps domain.Partner with the ObjectID _id used in storage
type partnerDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	domain.Partner `bson:",inline"`
}

func (d *partnerDoc) toDomain() *domain.Partner {
	p := d.Partner
	p.ID = d.ID.Hex()
	return &p
}

// MongoPartnerRepository implements domain.PartnerRepository
type MongoPartnerRepository struct {
	collection *mongo.Collection
}

func NewMongoPartnerRepository(db *mongo.Database) *MongoPartnerRepository {
	coll := db.Collection("partners")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Unique identity indexes plus the query indexes the directory depends
	// on. The 2dsphere index over location is required for $near.
	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "services.category", Value: 1}}},
		{Keys: bson.D{{Key: "services.name", Value: 1}}},
		{Keys: bson.D{{Key: "rating", Value: -1}}},
		{Keys: bson.D{{Key: "is_active", Value: 1}}},
		{Keys: bson.D{{Key: "is_verified", Value: 1}}},
	})

	return &MongoPartnerRepository{
		collection: coll,
	}
}

// excludePassword is applied to every read that leaves the auth path
var excludePassword = bson.M{"password": 0}

func (r *MongoPartnerRepository) Create(ctx context.Context, partner *domain.Partner) error {
	now := time.Now()
	partner.CreatedAt = now
	partner.UpdatedAt = now

	doc := partnerDoc{ID: primitive.NewObjectID(), Partner: *partner}
	if doc.Portfolio == nil {
		doc.Portfolio = []domain.PortfolioItem{}
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create partner: %w", err)
	}
	partner.ID = doc.ID.Hex()
	return nil
}

func (r *MongoPartnerRepository) GetByID(ctx context.Context, id string) (*domain.Partner, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id: %w", domain.ErrNotFound)
	}

	var doc partnerDoc
	opts := options.FindOne().SetProjection(excludePassword)
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}, opts).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}
	return doc.toDomain(), nil
}

// GetByEmail returns the partner including the password hash; only the auth
// path may call this.
func (r *MongoPartnerRepository) GetByEmail(ctx context.Context, email string) (*domain.Partner, error) {
	var doc partnerDoc
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get partner by email: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoPartnerRepository) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	filter := bson.M{"$or": bson.A{bson.M{"email": email}, bson.M{"phone": phone}}}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check partner existence: %w", err)
	}
	return count > 0, nil
}

func (r *MongoPartnerRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.Partner, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id: %w", domain.ErrNotFound)
	}

	set := bson.M{"updated_at": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.BusinessName != nil {
		set["business_name"] = *update.BusinessName
	}
	if update.BusinessType != nil {
		set["business_type"] = *update.BusinessType
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Address != nil {
		set["address"] = *update.Address
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(excludePassword)

	var doc partnerDoc
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoPartnerRepository) UpdateServices(ctx context.Context, id string, services []domain.Service) error {
	return r.setFields(ctx, id, bson.M{"services": services})
}

func (r *MongoPartnerRepository) UpdateVisitingFee(ctx context.Context, id string, fee domain.VisitingFee) error {
	return r.setFields(ctx, id, bson.M{"visiting_fee": fee})
}

func (r *MongoPartnerRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.setFields(ctx, id, bson.M{"is_active": active})
}

func (r *MongoPartnerRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.setFields(ctx, id, bson.M{"password": passwordHash})
}

func (r *MongoPartnerRepository) SetAvatar(ctx context.Context, id string, desc *domain.AssetDescriptor) error {
	return r.setMediaField(ctx, id, "avatar", desc)
}

func (r *MongoPartnerRepository) SetBanner(ctx context.Context, id string, desc *domain.AssetDescriptor) error {
	return r.setMediaField(ctx, id, "banner_image", desc)
}

func (r *MongoPartnerRepository) setMediaField(ctx context.Context, id, field string, desc *domain.AssetDescriptor) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid id: %w", domain.ErrNotFound)
	}

	var update bson.M
	if desc == nil {
		update = bson.M{
			"$unset": bson.M{field: ""},
			"$set":   bson.M{"updated_at": time.Now()},
		}
	} else {
		update = bson.M{
			"$set": bson.M{field: desc, "updated_at": time.Now()},
		}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", field, err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoPartnerRepository) setFields(ctx context.Context, id string, fields bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid id: %w", domain.ErrNotFound)
	}

	fields["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update partner: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddPortfolioItems appends items to the partner's portfolio, assigning an
// id and upload timestamp to each
func (r *MongoPartnerRepository) AddPortfolioItems(ctx context.Context, id string, items []domain.PortfolioItem) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid id: %w", domain.ErrNotFound)
	}

	now := time.Now()
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = primitive.NewObjectID().Hex()
		}
		if items[i].UploadedAt.IsZero() {
			items[i].UploadedAt = now
		}
	}

	update := bson.M{
		"$push": bson.M{"portfolio_images": bson.M{"$each": items}},
		"$set":  bson.M{"updated_at": now},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to add portfolio images: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoPartnerRepository) GetPortfolioItem(ctx context.Context, id, itemID string) (*domain.PortfolioItem, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id: %w", domain.ErrNotFound)
	}

	filter := bson.M{"_id": objID, "portfolio_images._id": itemID}
	opts := options.FindOne().SetProjection(bson.M{"portfolio_images.$": 1})

	var doc struct {
		Portfolio []domain.PortfolioItem `bson:"portfolio_images"`
	}
	if err := r.collection.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPortfolioItemNotFound
		}
		return nil, fmt.Errorf("failed to get portfolio image: %w", err)
	}
	if len(doc.Portfolio) == 0 {
		return nil, domain.ErrPortfolioItemNotFound
	}
	item := doc.Portfolio[0]
	return &item, nil
}

// UpdatePortfolioItem applies a partial patch to one item via the positional
// operator. Absent patch fields are left untouched.
func (r *MongoPartnerRepository) UpdatePortfolioItem(ctx context.Context, id, itemID string, patch domain.PortfolioPatch) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid id: %w", domain.ErrNotFound)
	}

	set := bson.M{"updated_at": time.Now()}
	if patch.Kind != nil {
		set["portfolio_images.$.kind"] = *patch.Kind
	}
	if patch.Caption != nil {
		set["portfolio_images.$.caption"] = *patch.Caption
	}
	if patch.Location != nil {
		set["portfolio_images.$.loc"] = *patch.Location
	}

	filter := bson.M{"_id": objID, "portfolio_images._id": itemID}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update portfolio image: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrPortfolioItemNotFound
	}
	return nil
}

func (r *MongoPartnerRepository) RemovePortfolioItem(ctx context.Context, id, itemID string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid id: %w", domain.ErrNotFound)
	}

	update := bson.M{
		"$pull": bson.M{"portfolio_images": bson.M{"_id": itemID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to remove portfolio image: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	if result.ModifiedCount == 0 {
		return domain.ErrPortfolioItemNotFound
	}
	return nil
}

// FindNearby runs a $near query over the 2dsphere index. Mongo returns
// documents in increasing distance from the query point, which is the
// ordering contract callers rely on.
func (r *MongoPartnerRepository) FindNearby(ctx context.Context, point domain.GeoPoint, maxDistanceMeters int, filter domain.DirectoryFilter) ([]*domain.Partner, error) {
	query := bson.M{
		"location": bson.M{
			"$near": bson.M{
				"$geometry":    point,
				"$maxDistance": maxDistanceMeters,
			},
		},
		"is_active":   true,
		"is_verified": true,
	}
	if filter.Category != "" {
		query["services.category"] = filter.Category
	}
	if filter.ServiceName != "" {
		query["services.name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.ServiceName), Options: "i"}
	}
	if filter.MinRating > 0 {
		query["rating"] = bson.M{"$gte": filter.MinRating}
	}

	opts := options.Find().SetProjection(excludePassword)
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to run nearby query: %w", err)
	}
	return decodePartners(ctx, cursor)
}

func (r *MongoPartnerRepository) FindByCategory(ctx context.Context, category string, limit int64) ([]*domain.Partner, error) {
	query := bson.M{
		"services.category": category,
		"is_active":         true,
		"is_verified":       true,
	}
	return r.findRanked(ctx, query, limit)
}

func (r *MongoPartnerRepository) SearchByServiceName(ctx context.Context, name string, limit int64) ([]*domain.Partner, error) {
	query := bson.M{
		"services.name": primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"},
		"is_active":     true,
		"is_verified":   true,
	}
	return r.findRanked(ctx, query, limit)
}

// findRanked orders by descending rating; ties come back in whatever order
// the store picks
func (r *MongoPartnerRepository) findRanked(ctx context.Context, query bson.M, limit int64) ([]*domain.Partner, error) {
	opts := options.Find().
		SetProjection(excludePassword).
		SetSort(bson.D{{Key: "rating", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query partners: %w", err)
	}
	return decodePartners(ctx, cursor)
}

func decodePartners(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Partner, error) {
	defer cursor.Close(ctx)

	partners := []*domain.Partner{}
	for cursor.Next(ctx) {
		var doc partnerDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode partner: %w", err)
		}
		partners = append(partners, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return partners, nil
}
