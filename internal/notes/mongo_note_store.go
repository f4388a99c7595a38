package notes

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(ctx context.Context, cli *mongo.Client, db, coll string) (*MongoStore, error) {
	c := cli.Database(db).Collection(coll)

	// Index covering the owner-scoped, recency-sorted listing
	_, _ = c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "updatedAt", Value: -1}},
	})

	return &MongoStore{coll: c}, nil
}

type noteDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId"`
	Title     string             `bson:"title"`
	Details   string             `bson:"details"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *noteDoc) toNote() *Note {
	return &Note{
		ID:        d.ID.Hex(),
		UserID:    d.UserID.Hex(),
		Title:     d.Title,
		Details:   d.Details,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (s *MongoStore) Insert(ctx context.Context, n *Note) error {
	uid, err := primitive.ObjectIDFromHex(n.UserID)
	if err != nil {
		return err
	}
	now := time.Now()
	doc := noteDoc{
		ID:        primitive.NewObjectID(),
		UserID:    uid,
		Title:     n.Title,
		Details:   n.Details,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	n.ID = doc.ID.Hex()
	n.CreatedAt = now
	n.UpdatedAt = now
	return nil
}

func (s *MongoStore) FindByUser(ctx context.Context, userID string, skip, limit int64) ([]Note, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.coll.Find(ctx, bson.M{"userId": uid}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	return decodeNotes(ctx, cur)
}

func (s *MongoStore) FindByID(ctx context.Context, id, userID string) (*Note, error) {
	filter, err := ownedFilter(id, userID)
	if err != nil {
		return nil, err
	}
	var doc noteDoc
	err = s.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toNote(), nil
}

func (s *MongoStore) SearchByTitle(ctx context.Context, userID, title string) ([]Note, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}
	filter := bson.M{
		"userId": uid,
		"title":  bson.M{"$regex": regexp.QuoteMeta(title), "$options": "i"},
	}
	cur, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	return decodeNotes(ctx, cur)
}

func (s *MongoStore) Update(ctx context.Context, id, userID, title, details string) (*Note, error) {
	filter, err := ownedFilter(id, userID)
	if err != nil {
		return nil, err
	}
	var doc noteDoc
	err = s.coll.FindOneAndUpdate(
		ctx,
		filter,
		bson.M{"$set": bson.M{"title": title, "details": details, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toNote(), nil
}

func (s *MongoStore) Delete(ctx context.Context, id, userID string) (*Note, error) {
	filter, err := ownedFilter(id, userID)
	if err != nil {
		return nil, err
	}
	var doc noteDoc
	err = s.coll.FindOneAndDelete(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toNote(), nil
}

func (s *MongoStore) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, err
	}
	res, err := s.coll.DeleteMany(ctx, bson.M{"userId": uid})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ownedFilter builds the owner-scoped id filter. A malformed note id can
// never match anything, so it maps straight to not-found; the caller cannot
// tell it apart from a foreign-owned note.
func ownedFilter(id, userID string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNoteNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNoteNotFound
	}
	return bson.M{"_id": oid, "userId": uid}, nil
}

func decodeNotes(ctx context.Context, cur *mongo.Cursor) ([]Note, error) {
	out := []Note{}
	for cur.Next(ctx) {
		var doc noteDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, *doc.toNote())
	}
	return out, cur.Err()
}
