package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainuser "staybook/internal/domain/user"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection("agg_user")}
}

// EnsureIndexes creates the unique email index; call once at startup.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "google_id", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
	return err
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	return r.findOne(ctx, bson.M{"_id": string(id)})
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	return r.findOne(ctx, bson.M{"email": domainuser.NormalizeEmail(email)})
}

func (r *UserRepository) ByGoogleID(ctx context.Context, googleID string) (*domainuser.User, error) {
	if googleID == "" {
		return nil, domainuser.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"google_id": googleID})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domainuser.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *UserRepository) Save(ctx context.Context, u *domainuser.User) error {
	doc := newUserDocument(u)
	opts := options.Replace().SetUpsert(true)
	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainuser.ErrEmailAlreadyUsed
		}
		return err
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, params domainuser.ListParams) (domainuser.ListResult, error) {
	filter := bson.M{}
	if params.Role != "" {
		filter["roles"] = string(params.Role)
	}
	if q := lowerKey(params.Query); q != "" {
		filter["$or"] = bson.A{
			bson.M{"email": bson.M{"$regex": q}},
			bson.M{"name_key": bson.M{"$regex": q}},
		}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return domainuser.ListResult{}, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return domainuser.ListResult{}, err
	}
	defer cursor.Close(ctx)

	var items []*domainuser.User
	for cursor.Next(ctx) {
		var doc userDocument
		if err := cursor.Decode(&doc); err != nil {
			return domainuser.ListResult{}, err
		}
		items = append(items, doc.toAggregate())
	}
	if err := cursor.Err(); err != nil {
		return domainuser.ListResult{}, err
	}
	return domainuser.ListResult{Items: items, Total: int(total)}, nil
}

type userDocument struct {
	ID           string   `bson:"_id"`
	Email        string   `bson:"email"`
	Name         string   `bson:"name"`
	NameKey      string   `bson:"name_key"`
	PasswordHash string   `bson:"password_hash,omitempty"`
	GoogleID     string   `bson:"google_id,omitempty"`
	Roles        []string `bson:"roles"`
	Blocked      bool     `bson:"blocked"`
	CreatedAt    int64    `bson:"created_at"`
	UpdatedAt    int64    `bson:"updated_at"`
}

func newUserDocument(u *domainuser.User) userDocument {
	doc := userDocument{
		ID:           string(u.ID),
		Email:        u.Email,
		Name:         u.Name,
		NameKey:      lowerKey(u.Name),
		PasswordHash: u.PasswordHash,
		GoogleID:     u.GoogleID,
		Blocked:      u.Blocked,
		CreatedAt:    u.CreatedAt.UnixMilli(),
		UpdatedAt:    u.UpdatedAt.UnixMilli(),
	}
	for _, role := range u.Roles {
		doc.Roles = append(doc.Roles, string(role))
	}
	return doc
}

func (d userDocument) toAggregate() *domainuser.User {
	u := &domainuser.User{
		ID:           domainuser.ID(d.ID),
		Email:        d.Email,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		GoogleID:     d.GoogleID,
		Blocked:      d.Blocked,
		CreatedAt:    timestampToTime(d.CreatedAt),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
	}
	for _, role := range d.Roles {
		u.Roles = append(u.Roles, domainuser.Role(role))
	}
	return u
}
