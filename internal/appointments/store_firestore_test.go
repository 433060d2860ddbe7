package appointments

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against the Firestore emulator (gcloud emulators firestore start).
func newEmulatorStore(t *testing.T) *FirestoreStore {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "demo-revive")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewFirestoreStore(client, fmt.Sprintf("smartAppointments_test_%d", time.Now().UnixNano()))
}

func TestFirestoreStore(t *testing.T) {
	store := newEmulatorStore(t)
	ctx := context.Background()

	firstID, err := store.Create(ctx, NewRecord(validRequest()))
	require.NoError(t, err)
	require.NotEmpty(t, firstID)

	other := validRequest()
	other.Email = "ravi@example.com"
	_, err = store.Create(ctx, NewRecord(other))
	require.NoError(t, err)

	got, err := store.Get(ctx, firstID)
	require.NoError(t, err)
	assert.Equal(t, firstID, got.ID)
	assert.Equal(t, StatusPendingVerification, got.Status)
	assert.False(t, got.CreatedAt.IsZero(), "createdAt is stamped by the server")

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	recent, err := store.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	mine, err := store.ListByEmail(ctx, validRequest().Email)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, firstID, mine[0].ID)
}

func TestNewFirestoreStoreDefaults(t *testing.T) {
	assert.Panics(t, func() { NewFirestoreStore(nil, "") })
}
