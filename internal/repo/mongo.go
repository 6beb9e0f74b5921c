package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkordes/packing-list/backend/internal/domain"
)

// TripsCollection is the MongoDB collection holding trip documents.
const TripsCollection = "trips"

// maxMutateAttempts bounds the optimistic-concurrency retries in Mutate.
const maxMutateAttempts = 5


// tripDocument is the stored shape of a trip. Version increases on every
// write and guards Mutate against lost updates.
type tripDocument struct {
	ID          string          `bson:"_id"`
	Version     int64           `bson:"version"`
	Name        string          `bson:"name"`
	Destination string          `bson:"destination"`
	StartDate   time.Time       `bson:"startDate"`
	EndDate     time.Time       `bson:"endDate"`
	Items       []itemDocument  `bson:"items"`
	Categories  []string        `bson:"categories"`
	Tags        []string        `bson:"tags"`
	Weather     *domain.Weather `bson:"weather,omitempty"`
	CreatedAt   time.Time       `bson:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt"`
}

type itemDocument struct {
	ID       string `bson:"id"`
	Name     string `bson:"name"`
	Category string `bson:"category"`
	Quantity int    `bson:"quantity"`
}

// mongoTripRepo is the MongoDB implementation of TripRepo.
type mongoTripRepo struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoTripRepo constructs a TripRepo backed by the given database.
func NewMongoTripRepo(db *mongo.Database) TripRepo {
	return &mongoTripRepo{
		coll: db.Collection(TripsCollection),
		now:  func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// EnsureMongoIndexes creates the indexes the trip queries rely on.
// Safe to call on every start; existing indexes are left alone.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(TripsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "startDate", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("repo.EnsureMongoIndexes: %w", err)
	}
	return nil
}

// missingItemIDFilter matches trips holding at least one item without an id.
var missingItemIDFilter = bson.D{{Key: "items", Value: bson.D{{Key: "$elemMatch", Value: bson.D{
	{Key: "$or", Value: bson.A{
		bson.D{{Key: "id", Value: bson.D{{Key: "$exists", Value: false}}}},
		bson.D{{Key: "id", Value: ""}},
		bson.D{{Key: "id", Value: nil}},
	}},
}}}}}

// BackfillMongoItemIDs stores an id on every item that was saved without one
// and returns the number of trips rewritten. Safe to call on every start.
// A trip modified concurrently is skipped; its next Mutate persists the ids.
func BackfillMongoItemIDs(ctx context.Context, db *mongo.Database) (int64, error) {
	coll := db.Collection(TripsCollection)
	cur, err := coll.Find(ctx, missingItemIDFilter)
	if err != nil {
		return 0, fmt.Errorf("repo.BackfillMongoItemIDs: %w", err)
	}
	defer cur.Close(ctx)

	var updated int64
	for cur.Next(ctx) {
		var doc tripDocument
		if err := cur.Decode(&doc); err != nil {
			return updated, fmt.Errorf("repo.BackfillMongoItemIDs: decode: %w", err)
		}
		trip := fromDocument(doc)
		res, err := coll.ReplaceOne(ctx, versionFilter(doc), toDocument(trip, doc.Version+1))
		if err != nil {
			return updated, fmt.Errorf("repo.BackfillMongoItemIDs: replace %s: %w", doc.ID, err)
		}
		updated += res.ModifiedCount
	}
	if err := cur.Err(); err != nil {
		return updated, fmt.Errorf("repo.BackfillMongoItemIDs: cursor: %w", err)
	}
	return updated, nil
}

// Create inserts a new trip document with a fresh id.
func (r *mongoTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	now := r.now()
	trip.ID = uuid.New()
	trip.CreatedAt = now
	trip.UpdatedAt = now

	doc := toDocument(trip, 1)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.MongoTripRepo.Create: %w", err)
	}
	return fromDocument(doc), nil
}

// GetByID retrieves a trip document by id.
func (r *mongoTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	doc, err := r.find(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.MongoTripRepo.GetByID: %w", err)
	}
	return fromDocument(doc), nil
}

// List returns one page of trips, most recent start date first.
func (r *mongoTripRepo) List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.MongoTripRepo.List: count: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "startDate", Value: -1}, {Key: "createdAt", Value: -1}}).
		SetSkip(int64(p.Offset())).
		SetLimit(int64(p.Limit))

	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.MongoTripRepo.List: %w", err)
	}
	defer cur.Close(ctx)

	trips := []domain.Trip{}
	for cur.Next(ctx) {
		var doc tripDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("repo.MongoTripRepo.List: decode: %w", err)
		}
		trips = append(trips, fromDocument(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.MongoTripRepo.List: cursor: %w", err)
	}
	return trips, total, nil
}

// Mutate replaces the document only if its version is unchanged since it was
// read. A concurrent writer bumps the version, the replace matches nothing and
// the whole read-modify-write is retried against the fresh document.
func (r *mongoTripRepo) Mutate(ctx context.Context, id uuid.UUID, fn MutateFunc) (domain.Trip, error) {
	for attempt := 0; attempt < maxMutateAttempts; attempt++ {
		doc, err := r.find(ctx, id)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("repo.MongoTripRepo.Mutate: %w", err)
		}

		trip := fromDocument(doc)
		if err := fn(&trip); err != nil {
			return domain.Trip{}, fmt.Errorf("repo.MongoTripRepo.Mutate: %w", err)
		}
		trip.ID = id
		trip.CreatedAt = doc.CreatedAt
		trip.UpdatedAt = r.now()

		next := toDocument(trip, doc.Version+1)
		res, err := r.coll.ReplaceOne(ctx, versionFilter(doc), next)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("repo.MongoTripRepo.Mutate: replace: %w", err)
		}
		if res.MatchedCount == 1 {
			return fromDocument(next), nil
		}
	}
	return domain.Trip{}, fmt.Errorf("repo.MongoTripRepo.Mutate: %w: trip is being modified concurrently, retry", domain.ErrBusy)
}

// Delete removes a trip document.
func (r *mongoTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return fmt.Errorf("repo.MongoTripRepo.Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("repo.MongoTripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *mongoTripRepo) find(ctx context.Context, id uuid.UUID) (tripDocument, error) {
	var doc tripDocument
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return tripDocument{}, domain.ErrNotFound
		}
		return tripDocument{}, err
	}
	return doc, nil
}

// versionFilter matches doc only while its version is unchanged. Documents
// written before versioning have no version field and decode as 0.
func versionFilter(doc tripDocument) bson.D {
	if doc.Version == 0 {
		return bson.D{
			{Key: "_id", Value: doc.ID},
			{Key: "version", Value: bson.D{{Key: "$in", Value: bson.A{int64(0), nil}}}},
		}
	}
	return bson.D{{Key: "_id", Value: doc.ID}, {Key: "version", Value: doc.Version}}
}

func legacyItemID(tripID uuid.UUID, index int, it itemDocument) uuid.UUID {
	return uuid.NewSHA1(tripID, []byte(fmt.Sprintf("%d/%s/%s", index, it.ID, it.Name)))
}

func toDocument(t domain.Trip, version int64) tripDocument {
	items := make([]itemDocument, len(t.Items))
	for i, it := range t.Items {
		items[i] = itemDocument{ID: it.ID.String(), Name: it.Name, Category: it.Category, Quantity: it.Quantity}
	}
	return tripDocument{
		ID:          t.ID.String(),
		Version:     version,
		Name:        t.Name,
		Destination: t.Destination,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		Items:       items,
		Categories:  nonNilStrings(t.Categories),
		Tags:        nonNilStrings(t.Tags),
		Weather:     t.Weather,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// fromDocument maps a stored document to a domain.Trip. Items stored without
// a parseable id get one derived from the trip id and their position, so
// repeated reads agree until BackfillMongoItemIDs or the next Mutate persists it.
func fromDocument(d tripDocument) domain.Trip {
	id, _ := uuid.Parse(d.ID)
	items := make([]domain.Item, len(d.Items))
	for i, it := range d.Items {
		itemID, err := uuid.Parse(it.ID)
		if err != nil {
			itemID = legacyItemID(id, i, it)
		}
		items[i] = domain.Item{ID: itemID, Name: it.Name, Category: it.Category, Quantity: it.Quantity}
	}
	return domain.Trip{
		ID:          id,
		Name:        d.Name,
		Destination: d.Destination,
		StartDate:   d.StartDate.UTC(),
		EndDate:     d.EndDate.UTC(),
		Items:       items,
		Categories:  nonNilStrings(d.Categories),
		Tags:        nonNilStrings(d.Tags),
		Weather:     d.Weather,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}
