package notes

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DibasDebnath/SimpleNotesBackend/internal/auth"
)

const testFallbackKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestService(t *testing.T) (*Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	return NewService(store, NewKeyResolver(testFallbackKey)), store
}

func newTestUser(t *testing.T, withKey bool) *auth.User {
	t.Helper()
	hash, err := auth.HashPassword("CorrectHorse1!")
	require.NoError(t, err)
	u := &auth.User{ID: "0102030405060708090a0b0c", Username: "alice", Email: "alice@example.com", PassHash: hash}
	if withKey {
		key, err := GenerateKey()
		require.NoError(t, err)
		u.UserKey = key
	}
	return u
}

func TestCreateEchoesPlaintextAndStoresCiphertext(t *testing.T) {
	svc, store := newTestService(t)
	user := newTestUser(t, true)
	ctx := context.Background()

	created, err := svc.Create(ctx, user, "Groceries", "milk, eggs, bread")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", created.Title)
	assert.Equal(t, "milk, eggs, bread", created.Details)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, user.ID, created.UserID)
	assert.False(t, created.CreatedAt.IsZero())

	stored, err := store.FindByID(ctx, created.ID, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Groceries", stored.Title)
	assert.Contains(t, stored.Title, ":")
	assert.Contains(t, stored.Details, ":")
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	user := newTestUser(t, false)
	ctx := context.Background()

	_, err := svc.Create(ctx, user, "", "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"title", "details"}, verr.EmptyFields)

	_, err = svc.Create(ctx, user, "has title", "")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"details"}, verr.EmptyFields)

	_, err = svc.Create(ctx, user, strings.Repeat("a", 21), "details")
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "Title")

	_, err = svc.Create(ctx, user, strings.Repeat("a", 20), strings.Repeat("d", 1000))
	require.NoError(t, err)

	_, err = svc.Create(ctx, user, "ok", strings.Repeat("d", 1001))
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "Details")
}

func TestCreateValidationCountsCharacters(t *testing.T) {
	svc, _ := newTestService(t)
	user := newTestUser(t, false)
	ctx := context.Background()

	// 20 two-byte characters stay within the title bound.
	_, err := svc.Create(ctx, user, strings.Repeat("é", 20), "details")
	require.NoError(t, err)

	var verr *ValidationError
	_, err = svc.Create(ctx, user, strings.Repeat("é", 21), "details")
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "Title")

	_, err = svc.Create(ctx, user, "ok", strings.Repeat("ß", 1000))
	require.NoError(t, err)

	_, err = svc.Create(ctx, user, "ok", strings.Repeat("ß", 1001))
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "Details")
}

func TestListDecryptsAndScopesToOwner(t *testing.T) {
	svc, _ := newTestService(t)
	alice := newTestUser(t, true)
	bob := newTestUser(t, true)
	bob.ID = "ffffffffffffffffffffffff"
	bob.Email = "bob@example.com"
	ctx := context.Background()

	_, err := svc.Create(ctx, alice, "a-note", "alice details")
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob, "b-note", "bob details")
	require.NoError(t, err)

	got, err := svc.List(ctx, alice, 0, 0) // defaults apply
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a-note", got[0].Title)
	assert.Equal(t, "alice details", got[0].Details)
}

func TestListPagination(t *testing.T) {
	svc, _ := newTestService(t)
	user := newTestUser(t, false)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		_, err := svc.Create(ctx, user, "note", "details")
		require.NoError(t, err)
	}

	page1, err := svc.List(ctx, user, 1, 5)
	require.NoError(t, err)
	assert.Len(t, page1, 5)

	page2, err := svc.List(ctx, user, 2, 5)
	require.NoError(t, err)
	assert.Len(t, page2, 2)
}

func TestListSurvivesLegacyPlaintext(t *testing.T) {
	svc, store := newTestService(t)
	user := newTestUser(t, false)
	ctx := context.Background()

	legacy := &Note{UserID: user.ID, Title: "old plain title", Details: "old plain details"}
	require.NoError(t, store.Insert(ctx, legacy))

	got, err := svc.List(ctx, user, 1, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "old plain title", got[0].Title)
	assert.Equal(t, "old plain details", got[0].Details)
}

func TestGetAndSearchReturnStoredValue(t *testing.T) {
	svc, store := newTestService(t)
	user := newTestUser(t, true)
	ctx := context.Background()

	created, err := svc.Create(ctx, user, "Ciphered", "secret body")
	require.NoError(t, err)

	// Single fetch and title search skip decryption on purpose.
	got, err := svc.Get(ctx, user, created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Ciphered", got.Title)

	stored, err := store.FindByID(ctx, created.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Title, got.Title)

	found, err := svc.SearchByTitle(ctx, user, stored.Title[:8])
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, stored.Title, found[0].Title)
}

func TestUpdateReencryptsAndEchoes(t *testing.T) {
	svc, store := newTestService(t)
	user := newTestUser(t, true)
	ctx := context.Background()

	created, err := svc.Create(ctx, user, "before", "before body")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, user, created.ID, "after", "after body")
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, "after body", updated.Details)

	stored, err := store.FindByID(ctx, created.ID, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "after", stored.Title)
}

func TestOwnershipHidesForeignNotes(t *testing.T) {
	svc, _ := newTestService(t)
	alice := newTestUser(t, false)
	bob := newTestUser(t, false)
	bob.ID = "ffffffffffffffffffffffff"
	ctx := context.Background()

	created, err := svc.Create(ctx, alice, "mine", "alice only")
	require.NoError(t, err)

	// Foreign ids and nonexistent ids are indistinguishable.
	_, err = svc.Get(ctx, bob, created.ID)
	assert.ErrorIs(t, err, ErrNoteNotFound)
	_, err = svc.Get(ctx, bob, "000000000000000000000000")
	assert.ErrorIs(t, err, ErrNoteNotFound)

	_, err = svc.Update(ctx, bob, created.ID, "stolen", "nope")
	assert.ErrorIs(t, err, ErrNoteNotFound)
	_, err = svc.Delete(ctx, bob, created.ID)
	assert.ErrorIs(t, err, ErrNoteNotFound)

	still, err := svc.Get(ctx, alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, still.ID)
}

func TestConcurrentCreationStaysIsolated(t *testing.T) {
	svc, _ := newTestService(t)
	alice := newTestUser(t, true)
	bob := newTestUser(t, true)
	bob.ID = "ffffffffffffffffffffffff"
	bob.Email = "bob@example.com"
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, alice, "alice", "alice details")
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, bob, "bob", "bob details")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	aliceNotes, err := svc.List(ctx, alice, 1, 50)
	require.NoError(t, err)
	require.Len(t, aliceNotes, 10)
	for _, n := range aliceNotes {
		assert.Equal(t, alice.ID, n.UserID)
		assert.Equal(t, "alice", n.Title)
	}

	bobNotes, err := svc.List(ctx, bob, 1, 50)
	require.NoError(t, err)
	require.Len(t, bobNotes, 10)
	for _, n := range bobNotes {
		assert.Equal(t, bob.ID, n.UserID)
	}
}

func TestDeleteAllRequiresPassword(t *testing.T) {
	svc, _ := newTestService(t)
	user := newTestUser(t, false)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, user, "note", "details")
		require.NoError(t, err)
	}

	_, err := svc.DeleteAll(ctx, user, "wrong-password")
	assert.ErrorIs(t, err, ErrWrongPassword)
	left, err := svc.List(ctx, user, 1, 10)
	require.NoError(t, err)
	assert.Len(t, left, 3)

	count, err := svc.DeleteAll(ctx, user, "CorrectHorse1!")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	// Deleting again is still success, just zero rows.
	count, err = svc.DeleteAll(ctx, user, "CorrectHorse1!")
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestKeyResolver(t *testing.T) {
	r := NewKeyResolver(testFallbackKey)

	withKey := newTestUser(t, true)
	assert.Equal(t, withKey.UserKey, r.Resolve(withKey))

	withoutKey := newTestUser(t, false)
	assert.Equal(t, testFallbackKey, r.Resolve(withoutKey))

	assert.Equal(t, testFallbackKey, r.Resolve(nil))
}

func TestGenerateKey(t *testing.T) {
	k1, err := GenerateKey()
	require.NoError(t, err)
	k2, err := GenerateKey()
	require.NoError(t, err)
	assert.Len(t, k1, 64)
	assert.NotEqual(t, k1, k2)
}
