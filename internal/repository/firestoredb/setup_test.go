package firestoredb

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const emulatorProject = "demo-pump-attendance"

// newTestClient connects to the Firestore emulator. Tests are skipped when
// FIRESTORE_EMULATOR_HOST is not set.
func newTestClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := firestore.NewClient(ctx, emulatorProject)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// uniqueID keeps tests independent without wiping the emulator.
func uniqueID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}
