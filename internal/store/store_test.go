package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CandlelightHQ/candlelight_svc/internal/model"
	"github.com/CandlelightHQ/candlelight_svc/internal/storage"
	"github.com/CandlelightHQ/candlelight_svc/internal/store"
	"github.com/CandlelightHQ/candlelight_svc/internal/testutil"
)

const (
	testOwnerIdentifier      = "owner-1"
	testOtherOwnerIdentifier = "owner-2"
	testDocumentKey          = store.KeyProjects
	testAbsentDocumentKey    = store.KeyPosts
	testFirstTitleValue      = "First"
	testSecondTitleValue     = "Second"
	testCorruptDocumentValue = "{not json"

	backendNameGorm  = "gorm"
	backendNameRedis = "redis"
)

type storedDocument struct {
	Title string `json:"title"`
}

func newGormBackedStore(t *testing.T) store.Store {
	t.Helper()

	sqliteDatabase := testutil.NewSQLiteTestDatabase(t)
	database, openErr := storage.OpenDatabase(sqliteDatabase.Configuration())
	require.NoError(t, openErr)
	database = testutil.ConfigureDatabaseLogger(t, database)
	require.NoError(t, storage.AutoMigrate(database))

	return store.NewGormStore(database)
}

func newRedisBackedStore(t *testing.T) store.Store {
	t.Helper()

	return store.NewRedisStore(testutil.NewRedisTestClient(t))
}

func backendsUnderTest(t *testing.T) map[string]store.Store {
	t.Helper()

	return map[string]store.Store{
		backendNameGorm:  newGormBackedStore(t),
		backendNameRedis: newRedisBackedStore(t),
	}
}

func TestStoreRoundTripReplacesPriorValue(t *testing.T) {
	for backendName, persistedStore := range backendsUnderTest(t) {
		t.Run(backendName, func(testingT *testing.T) {
			requestContext := context.Background()

			require.NoError(testingT, persistedStore.Set(requestContext, testOwnerIdentifier, testDocumentKey, storedDocument{Title: testFirstTitleValue}))
			require.NoError(testingT, persistedStore.Set(requestContext, testOwnerIdentifier, testDocumentKey, storedDocument{Title: testSecondTitleValue}))

			var fetched storedDocument
			populated, loadErr := store.Load(requestContext, persistedStore, testOwnerIdentifier, testDocumentKey, &fetched)
			require.NoError(testingT, loadErr)
			require.True(testingT, populated)
			require.Equal(testingT, testSecondTitleValue, fetched.Title)
		})
	}
}

func TestStoreGetMissingKeyReturnsNotFound(t *testing.T) {
	for backendName, persistedStore := range backendsUnderTest(t) {
		t.Run(backendName, func(testingT *testing.T) {
			_, getErr := persistedStore.Get(context.Background(), testOwnerIdentifier, testAbsentDocumentKey)
			require.ErrorIs(testingT, getErr, store.ErrKeyNotFound)
		})
	}
}

func TestStoreScopesDocumentsPerOwner(t *testing.T) {
	for backendName, persistedStore := range backendsUnderTest(t) {
		t.Run(backendName, func(testingT *testing.T) {
			requestContext := context.Background()

			require.NoError(testingT, persistedStore.Set(requestContext, testOwnerIdentifier, testDocumentKey, storedDocument{Title: testFirstTitleValue}))

			_, getErr := persistedStore.Get(requestContext, testOtherOwnerIdentifier, testDocumentKey)
			require.ErrorIs(testingT, getErr, store.ErrKeyNotFound)
		})
	}
}

func TestStoreDeleteRemovesDocumentAndToleratesAbsence(t *testing.T) {
	for backendName, persistedStore := range backendsUnderTest(t) {
		t.Run(backendName, func(testingT *testing.T) {
			requestContext := context.Background()

			require.NoError(testingT, persistedStore.Set(requestContext, testOwnerIdentifier, testDocumentKey, storedDocument{Title: testFirstTitleValue}))
			require.NoError(testingT, persistedStore.Delete(requestContext, testOwnerIdentifier, testDocumentKey))

			_, getErr := persistedStore.Get(requestContext, testOwnerIdentifier, testDocumentKey)
			require.ErrorIs(testingT, getErr, store.ErrKeyNotFound)

			require.NoError(testingT, persistedStore.Delete(requestContext, testOwnerIdentifier, testDocumentKey))
		})
	}
}

func TestStoreRejectsEmptyOwnerAndKey(t *testing.T) {
	for backendName, persistedStore := range backendsUnderTest(t) {
		t.Run(backendName, func(testingT *testing.T) {
			requestContext := context.Background()

			_, ownerErr := persistedStore.Get(requestContext, "  ", testDocumentKey)
			require.ErrorIs(testingT, ownerErr, store.ErrMissingOwner)

			_, keyErr := persistedStore.Get(requestContext, testOwnerIdentifier, "")
			require.ErrorIs(testingT, keyErr, store.ErrMissingKey)

			require.ErrorIs(testingT, persistedStore.Set(requestContext, "", testDocumentKey, storedDocument{}), store.ErrMissingOwner)
			require.ErrorIs(testingT, persistedStore.Delete(requestContext, testOwnerIdentifier, " "), store.ErrMissingKey)
		})
	}
}

func TestLoadMissingKeyLeavesTargetDefault(t *testing.T) {
	persistedStore := newGormBackedStore(t)

	fetched := storedDocument{Title: testFirstTitleValue}
	populated, loadErr := store.Load(context.Background(), persistedStore, testOwnerIdentifier, testAbsentDocumentKey, &fetched)
	require.NoError(t, loadErr)
	require.False(t, populated)
	require.Equal(t, testFirstTitleValue, fetched.Title)
}

func TestLoadCorruptDocumentLeavesTargetDefault(t *testing.T) {
	sqliteDatabase := testutil.NewSQLiteTestDatabase(t)
	database, openErr := storage.OpenDatabase(sqliteDatabase.Configuration())
	require.NoError(t, openErr)
	database = testutil.ConfigureDatabaseLogger(t, database)
	require.NoError(t, storage.AutoMigrate(database))

	corruptEntry := model.StoreEntry{
		OwnerID: testOwnerIdentifier,
		Key:     testDocumentKey,
		Value:   []byte(testCorruptDocumentValue),
	}
	require.NoError(t, database.Create(&corruptEntry).Error)

	persistedStore := store.NewGormStore(database)

	fetched := storedDocument{Title: testFirstTitleValue}
	populated, loadErr := store.Load(context.Background(), persistedStore, testOwnerIdentifier, testDocumentKey, &fetched)
	require.NoError(t, loadErr)
	require.False(t, populated)
	require.Equal(t, testFirstTitleValue, fetched.Title)
}

func TestKnownKeysCarryThePrefix(t *testing.T) {
	knownKeys := store.KnownKeys()
	require.NotEmpty(t, knownKeys)
	for _, key := range knownKeys {
		require.Contains(t, key, store.KeyPrefix)
	}
}
