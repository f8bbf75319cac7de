package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"appointly/backend/internal/domain"
)

const notificationsCollection = "notifications"

type insertOneAPI interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

type NotificationRepo struct {
	coll insertOneAPI
	now  func() time.Time
}

func NewNotificationRepo(db *mongo.Database) *NotificationRepo {
	return &NotificationRepo{coll: db.Collection(notificationsCollection), now: time.Now}
}

// EnsureIndexes creates the recipient lookup index used by the inbox reader.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := db.Collection(notificationsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create notification indexes: %w", err)
	}
	return nil
}

func (r *NotificationRepo) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	if err := n.BeforeInsert(r.now().UTC()); err != nil {
		return domain.Notification{}, err
	}
	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return domain.Notification{}, fmt.Errorf("insert notification for %s: %w", n.RecipientID, err)
	}
	return n, nil
}
