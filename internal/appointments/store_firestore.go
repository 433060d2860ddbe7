package appointments

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.opentelemetry.io/otel"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultCollection is where bookings are written.
const DefaultCollection = "smartAppointments"

var storeTracer = otel.Tracer("revive.internal.appointments.store")

// FirestoreStore keeps one document per appointment. createdAt is set by the
// server on write.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreStore(client *firestore.Client, collection string) *FirestoreStore {
	if client == nil {
		panic("appointments: firestore client required")
	}
	if collection == "" {
		collection = DefaultCollection
	}
	return &FirestoreStore{client: client, collection: collection}
}

var _ Store = (*FirestoreStore)(nil)

func (s *FirestoreStore) Create(ctx context.Context, rec Record) (string, error) {
	ctx, span := storeTracer.Start(ctx, "appointments.firestore.create")
	defer span.End()

	ref := s.client.Collection(s.collection).NewDoc()
	if _, err := ref.Create(ctx, rec); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("appointments: firestore create: %w", err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Get(ctx context.Context, id string) (Record, error) {
	snap, err := s.client.Collection(s.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("appointments: firestore get: %w", err)
	}
	return decodeSnapshot(snap)
}

func (s *FirestoreStore) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	q := s.client.Collection(s.collection).
		OrderBy("createdAt", firestore.Desc).
		Limit(ClampLimit(limit))
	return collect(q.Documents(ctx))
}

func (s *FirestoreStore) ListByEmail(ctx context.Context, email string) ([]Record, error) {
	q := s.client.Collection(s.collection).
		Where("email", "==", email).
		OrderBy("createdAt", firestore.Desc)
	return collect(q.Documents(ctx))
}

func collect(iter *firestore.DocumentIterator) ([]Record, error) {
	defer iter.Stop()
	out := []Record{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("appointments: firestore query: %w", err)
		}
		rec, err := decodeSnapshot(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

func decodeSnapshot(snap *firestore.DocumentSnapshot) (Record, error) {
	var rec Record
	if err := snap.DataTo(&rec); err != nil {
		return Record{}, fmt.Errorf("appointments: decode %s: %w", snap.Ref.ID, err)
	}
	rec.ID = snap.Ref.ID
	return rec, nil
}
