package registry_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"creg/internal/registry"
	"creg/internal/testutil"
)

const longURL = "https://example.com/12345"

type fixture struct {
	store    *testutil.FailingStore
	clock    *testutil.StubClock
	logger   *testutil.RecordingLogger
	creators *registry.CreatorRegistry
	content  *registry.ContentStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := testutil.NewFailingStore(testutil.NewTestStore())
	clock := testutil.FixedClock()
	logger := testutil.NewRecordingLogger()
	creators := registry.NewCreatorRegistry(st, logger)
	return &fixture{
		store:    st,
		clock:    clock,
		logger:   logger,
		creators: creators,
		content:  registry.NewContentStore(st, creators, clock, logger),
	}
}

// withCreator registers walletID and publishes the given titles in order.
func (f *fixture) withCreator(t *testing.T, walletID string, titles ...string) {
	t.Helper()
	require.NoError(t, f.creators.Register(walletID, "name-"+walletID, walletID+"@example.com"))
	for _, title := range titles {
		require.NoError(t, f.content.Publish(walletID, title, "about "+title, longURL))
	}
}
