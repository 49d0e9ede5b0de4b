package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/gharseva/gharseva-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	domain.User `bson:",inline"`
}

func (d *userDoc) toDomain() *domain.User {
	u := d.User
	u.ID = d.ID.Hex()
	return &u
}

// MongoUserRepository implements domain.UserRepository
type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	coll := db.Collection("users")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Unique identity indexes; the 2dsphere index backs nearby-seeker queries.
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
		{Keys: bson.D{{Key: "is_active", Value: 1}}},
	})

	return &MongoUserRepository{
		collection: coll,
	}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	doc := userDoc{ID: primitive.NewObjectID(), User: *user}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = doc.ID.Hex()
	return nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id: %w", domain.ErrNotFound)
	}

	var doc userDoc
	opts := options.FindOne().SetProjection(excludePassword)
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}, opts).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return doc.toDomain(), nil
}

// GetByEmail returns the user including the password hash; only the auth
// path may call this.
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc userDoc
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoUserRepository) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	filter := bson.M{"$or": bson.A{bson.M{"email": email}, bson.M{"phone": phone}}}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id string, update domain.UserProfileUpdate) error {
	fields := bson.M{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Location != nil {
		fields["location"] = *update.Location
	}
	return r.setFields(ctx, id, fields)
}

func (r *MongoUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.setFields(ctx, id, bson.M{"password": passwordHash})
}

func (r *MongoUserRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.setFields(ctx, id, bson.M{"is_active": active})
}

func (r *MongoUserRepository) SetAvatar(ctx context.Context, id string, desc *domain.AssetDescriptor) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid id: %w", domain.ErrNotFound)
	}

	var update bson.M
	if desc == nil {
		update = bson.M{
			"$unset": bson.M{"avatar": ""},
			"$set":   bson.M{"updated_at": time.Now()},
		}
	} else {
		update = bson.M{
			"$set": bson.M{"avatar": desc, "updated_at": time.Now()},
		}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to set avatar: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindNearby returns active seekers within maxDistanceMeters, closest first
func (r *MongoUserRepository) FindNearby(ctx context.Context, point domain.GeoPoint, maxDistanceMeters int) ([]*domain.User, error) {
	query := bson.M{
		"location": bson.M{
			"$near": bson.M{
				"$geometry":    point,
				"$maxDistance": maxDistanceMeters,
			},
		},
		"is_active": true,
	}

	opts := options.Find().SetProjection(excludePassword)
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to run nearby user query: %w", err)
	}
	defer cursor.Close(ctx)

	users := []*domain.User{}
	for cursor.Next(ctx) {
		var doc userDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return users, nil
}

func (r *MongoUserRepository) setFields(ctx context.Context, id string, fields bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid id: %w", domain.ErrNotFound)
	}

	fields["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
