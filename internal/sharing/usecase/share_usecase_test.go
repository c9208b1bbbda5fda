package usecase

import (
	"context"
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	credentialsDomain "github.com/credvault/credvault/internal/credentials/domain"
	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	cryptoService "github.com/credvault/credvault/internal/crypto/service"
	apperrors "github.com/credvault/credvault/internal/errors"
	sharingDomain "github.com/credvault/credvault/internal/sharing/domain"
	vaultUsecase "github.com/credvault/credvault/internal/vault/usecase"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeShareRepository is an in-memory ShareRepository.
type fakeShareRepository struct {
	shares map[uuid.UUID]*sharingDomain.Share
}

func newFakeShareRepository() *fakeShareRepository {
	return &fakeShareRepository{shares: make(map[uuid.UUID]*sharingDomain.Share)}
}

func (f *fakeShareRepository) Create(_ context.Context, share *sharingDomain.Share) error {
	copied := *share
	f.shares[share.ID] = &copied
	return nil
}

func (f *fakeShareRepository) GetByID(_ context.Context, id uuid.UUID) (*sharingDomain.Share, error) {
	share, ok := f.shares[id]
	if !ok {
		return nil, sharingDomain.ErrShareNotFound
	}
	copied := *share
	return &copied, nil
}

func (f *fakeShareRepository) GetByCredentialAndOwner(
	_ context.Context,
	credentialID uuid.UUID,
	ownerID uuid.UUID,
) (*sharingDomain.Share, error) {
	for _, share := range f.shares {
		if share.CredentialID == credentialID && share.OwnerID == ownerID {
			copied := *share
			return &copied, nil
		}
	}
	return nil, sharingDomain.ErrShareNotFound
}

func (f *fakeShareRepository) RefreshLink(_ context.Context, share *sharingDomain.Share) error {
	stored, ok := f.shares[share.ID]
	if !ok {
		return sharingDomain.ErrShareNotFound
	}
	stored.EncryptedData = share.EncryptedData
	stored.Salt = share.Salt
	stored.CreatedAt = share.CreatedAt
	return nil
}

func (f *fakeShareRepository) AddRecipient(
	_ context.Context,
	shareID uuid.UUID,
	userID uuid.UUID,
	wrappedKey cryptoDomain.Envelope,
) error {
	share, ok := f.shares[shareID]
	if !ok {
		return sharingDomain.ErrShareNotFound
	}
	found := false
	for _, existing := range share.SharedTo {
		if existing == userID {
			found = true
			break
		}
	}
	if !found {
		share.SharedTo = append(share.SharedTo, userID)
	}
	share.RecipientKeys[userID] = wrappedKey
	return nil
}

func (f *fakeShareRepository) ListOwned(
	_ context.Context,
	ownerID uuid.UUID,
) ([]*sharingDomain.OwnedShare, error) {
	var result []*sharingDomain.OwnedShare
	for _, share := range f.shares {
		if share.OwnerID == ownerID {
			result = append(result, &sharingDomain.OwnedShare{
				ID:           share.ID,
				CredentialID: share.CredentialID,
				SharedTo:     share.SharedTo,
				CreatedAt:    share.CreatedAt,
			})
		}
	}
	return result, nil
}

func (f *fakeShareRepository) ListForRecipient(
	_ context.Context,
	userID uuid.UUID,
) ([]*sharingDomain.Share, error) {
	var result []*sharingDomain.Share
	for _, share := range f.shares {
		for _, recipient := range share.SharedTo {
			if recipient == userID {
				copied := *share
				result = append(result, &copied)
				break
			}
		}
	}
	return result, nil
}

func (f *fakeShareRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.shares[id]; !ok {
		return sharingDomain.ErrShareNotFound
	}
	delete(f.shares, id)
	return nil
}

// fakeCredentialStore is an in-memory CredentialStore.
type fakeCredentialStore struct {
	credentials map[uuid.UUID]*credentialsDomain.Credential
}

func newFakeCredentialStore() *fakeCredentialStore {
	return &fakeCredentialStore{credentials: make(map[uuid.UUID]*credentialsDomain.Credential)}
}

func (f *fakeCredentialStore) GetByID(
	_ context.Context,
	id uuid.UUID,
) (*credentialsDomain.Credential, error) {
	credential, ok := f.credentials[id]
	if !ok {
		return nil, credentialsDomain.ErrCredentialNotFound
	}
	copied := *credential
	return &copied, nil
}

func (f *fakeCredentialStore) Update(
	_ context.Context,
	credential *credentialsDomain.Credential,
) error {
	if _, ok := f.credentials[credential.ID]; !ok {
		return credentialsDomain.ErrCredentialNotFound
	}
	copied := *credential
	f.credentials[credential.ID] = &copied
	return nil
}

// shareFixture wires a share use case against in-memory fakes, a real session
// manager and real crypto.
type shareFixture struct {
	useCase     *shareUseCase
	shares      *fakeShareRepository
	credentials *fakeCredentialStore
	sessions    *vaultUsecase.SessionManager
	cipher      cryptoService.Cipher
	keyWrapper  cryptoService.KeyWrapper
	ownerID     uuid.UUID
	ownerKey    cryptoDomain.SealedKey
}

func newShareFixture(t *testing.T) *shareFixture {
	t.Helper()

	cipher := cryptoService.NewCipher()
	keyWrapper := cryptoService.NewKeyWrapper(cipher)
	sessions := vaultUsecase.NewSessionManager()

	fixture := &shareFixture{
		shares:      newFakeShareRepository(),
		credentials: newFakeCredentialStore(),
		sessions:    sessions,
		cipher:      cipher,
		keyWrapper:  keyWrapper,
		ownerID:     uuid.Must(uuid.NewV7()),
		ownerKey:    newMasterKey(t),
	}
	fixture.useCase = &shareUseCase{
		shareRepo:      fixture.shares,
		credentialRepo: fixture.credentials,
		session:        sessions,
		keyDeriver:     cryptoService.NewKDF(cryptoService.DefaultIterations),
		cipher:         cipher,
		keyWrapper:     keyWrapper,
		linkHost:       "vault.example.com",
		now:            time.Now,
	}
	fixture.sessions.Hold(fixture.ownerID, fixture.ownerKey)
	return fixture
}

func newMasterKey(t *testing.T) cryptoDomain.SealedKey {
	t.Helper()

	raw := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(raw)
	require.NoError(t, err)
	key, err := cryptoDomain.NewSealedKey(raw)
	require.NoError(t, err)
	return key
}

// seedCredential stores an owned credential encrypted under an item key.
func (f *shareFixture) seedCredential(t *testing.T, password string) *credentialsDomain.Credential {
	t.Helper()

	itemKey, err := f.keyWrapper.GenerateItemKey()
	require.NoError(t, err)
	defer itemKey.Destroy()

	encrypted, err := f.cipher.Encrypt(password, itemKey)
	require.NoError(t, err)
	blob, err := f.keyWrapper.WrapKey(itemKey, f.ownerKey)
	require.NoError(t, err)

	credential := &credentialsDomain.Credential{
		ID:          uuid.Must(uuid.NewV7()),
		OwnerID:     f.ownerID,
		Site:        "example.com",
		Username:    "bob",
		Password:    encrypted,
		ItemKeyBlob: &blob,
		Color:       "#336699",
	}
	f.credentials.credentials[credential.ID] = credential
	return credential
}

// linkPassword extracts the key parameter from a share link fragment.
func linkPassword(t *testing.T, link string) string {
	t.Helper()

	_, fragment, found := strings.Cut(link, "#")
	require.True(t, found, "link has no fragment: %s", link)
	for _, param := range strings.Split(fragment, "&") {
		if value, ok := strings.CutPrefix(param, "key="); ok {
			return value
		}
	}
	t.Fatalf("link fragment has no key parameter: %s", link)
	return ""
}

func TestShareUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("link carries the share id and password in the fragment", func(t *testing.T) {
		fixture := newShareFixture(t)
		credential := fixture.seedCredential(t, "secret1")

		created, err := fixture.useCase.Create(ctx, fixture.ownerID, credential.ID)
		require.NoError(t, err)

		assert.Contains(t, created.Link, "https://vault.example.com/#share_id="+created.ShareID.String())
		assert.NotEmpty(t, linkPassword(t, created.Link))
	})

	t.Run("re-creating refreshes the link in place", func(t *testing.T) {
		fixture := newShareFixture(t)
		credential := fixture.seedCredential(t, "secret1")

		first, err := fixture.useCase.Create(ctx, fixture.ownerID, credential.ID)
		require.NoError(t, err)
		second, err := fixture.useCase.Create(ctx, fixture.ownerID, credential.ID)
		require.NoError(t, err)

		assert.Equal(t, first.ShareID, second.ShareID)
		assert.Len(t, fixture.shares.shares, 1)

		// The first link password no longer unwraps anything.
		viewer := uuid.Must(uuid.NewV7())
		_, err = fixture.useCase.Resolve(ctx, viewer, first.ShareID, linkPassword(t, first.Link))
		assert.ErrorIs(t, err, sharingDomain.ErrLinkInvalid)
		_, err = fixture.useCase.Resolve(ctx, viewer, second.ShareID, linkPassword(t, second.Link))
		assert.NoError(t, err)
	})

	t.Run("migrates a legacy credential before sharing", func(t *testing.T) {
		fixture := newShareFixture(t)

		encrypted, err := fixture.cipher.Encrypt("legacy-secret", fixture.ownerKey)
		require.NoError(t, err)
		legacy := &credentialsDomain.Credential{
			ID:       uuid.Must(uuid.NewV7()),
			OwnerID:  fixture.ownerID,
			Site:     "old.example.com",
			Username: "alice",
			Password: encrypted,
		}
		fixture.credentials.credentials[legacy.ID] = legacy

		created, err := fixture.useCase.Create(ctx, fixture.ownerID, legacy.ID)
		require.NoError(t, err)

		migrated := fixture.credentials.credentials[legacy.ID]
		require.NotNil(t, migrated.ItemKeyBlob)

		// The link resolves to the original password through the new item key.
		viewer := uuid.Must(uuid.NewV7())
		preview, err := fixture.useCase.Resolve(ctx, viewer, created.ShareID, linkPassword(t, created.Link))
		require.NoError(t, err)
		assert.Equal(t, "legacy-secret", preview.Password)
	})

	t.Run("rejects another user's credential", func(t *testing.T) {
		fixture := newShareFixture(t)
		credential := fixture.seedCredential(t, "secret1")

		intruder := uuid.Must(uuid.NewV7())
		fixture.sessions.Hold(intruder, newMasterKey(t))

		_, err := fixture.useCase.Create(ctx, intruder, credential.ID)
		assert.ErrorIs(t, err, credentialsDomain.ErrNotOwner)
	})

	t.Run("locked vault rejects the create", func(t *testing.T) {
		fixture := newShareFixture(t)
		credential := fixture.seedCredential(t, "secret1")
		fixture.sessions.Release(fixture.ownerID)

		_, err := fixture.useCase.Create(ctx, fixture.ownerID, credential.ID)
		assert.ErrorIs(t, err, apperrors.ErrLocked)
	})
}

func TestShareUseCase_ResolveAccept(t *testing.T) {
	ctx := context.Background()

	t.Run("full share lifecycle", func(t *testing.T) {
		fixture := newShareFixture(t)
		credential := fixture.seedCredential(t, "secret1")

		created, err := fixture.useCase.Create(ctx, fixture.ownerID, credential.ID)
		require.NoError(t, err)

		// Recipient resolves the link and sees the preview.
		recipientID := uuid.Must(uuid.NewV7())
		recipientKey := newMasterKey(t)
		fixture.sessions.Hold(recipientID, recipientKey)

		preview, err := fixture.useCase.Resolve(ctx, recipientID, created.ShareID, linkPassword(t, created.Link))
		require.NoError(t, err)
		assert.Equal(t, "example.com", preview.Site)
		assert.Equal(t, "bob", preview.Username)
		assert.Equal(t, "secret1", preview.Password)

		// Accept grants persistent access under the recipient's master key.
		require.NoError(t, fixture.useCase.Accept(ctx, recipientID, created.ShareID))

		share := fixture.shares.shares[created.ShareID]
		assert.Contains(t, share.SharedTo, recipientID)
		wrapped, ok := share.RecipientKey(recipientID)
		require.True(t, ok)

		itemKey, err := fixture.keyWrapper.UnwrapKey(wrapped, recipientKey)
		require.NoError(t, err)
		defer itemKey.Destroy()
		password, err := fixture.cipher.Decrypt(credential.Password, itemKey)
		require.NoError(t, err)
		assert.Equal(t, "secret1", password)

		// Revoke removes the record; recipient access vanishes with it.
		require.NoError(t, fixture.useCase.Revoke(ctx, fixture.ownerID, created.ShareID))
		_, err = fixture.shares.GetByID(ctx, created.ShareID)
		assert.ErrorIs(t, err, sharingDomain.ErrShareNotFound)
	})

	t.Run("expired link fails to resolve", func(t *testing.T) {
		fixture := newShareFixture(t)
		credential := fixture.seedCredential(t, "secret1")

		created, err := fixture.useCase.Create(ctx, fixture.ownerID, credential.ID)
		require.NoError(t, err)

		// Jump past the acceptance window.
		fixture.useCase.now = func() time.Time {
			return time.Now().Add(sharingDomain.LinkValidity + time.Second)
		}

		viewer := uuid.Must(uuid.NewV7())
		_, err = fixture.useCase.Resolve(ctx, viewer, created.ShareID, linkPassword(t, created.Link))
		assert.ErrorIs(t, err, sharingDomain.ErrLinkExpired)
	})

	t.Run("accepted recipients survive link expiry", func(t *testing.T) {
		fixture := newShareFixture(t)
		credential := fixture.seedCredential(t, "secret1")

		created, err := fixture.useCase.Create(ctx, fixture.ownerID, credential.ID)
		require.NoError(t, err)

		recipientID := uuid.Must(uuid.NewV7())
		fixture.sessions.Hold(recipientID, newMasterKey(t))
		_, err = fixture.useCase.Resolve(ctx, recipientID, created.ShareID, linkPassword(t, created.Link))
		require.NoError(t, err)
		require.NoError(t, fixture.useCase.Accept(ctx, recipientID, created.ShareID))

		fixture.useCase.now = func() time.Time {
			return time.Now().Add(sharingDomain.LinkValidity + time.Second)
		}

		share := fixture.shares.shares[created.ShareID]
		_, ok := share.RecipientKey(recipientID)
		assert.True(t, ok)
	})

	t.Run("wrong link password is invalid", func(t *testing.T) {
		fixture := newShareFixture(t)
		credential := fixture.seedCredential(t, "secret1")

		created, err := fixture.useCase.Create(ctx, fixture.ownerID, credential.ID)
		require.NoError(t, err)

		viewer := uuid.Must(uuid.NewV7())
		_, err = fixture.useCase.Resolve(ctx, viewer, created.ShareID, "wrong-password")
		assert.ErrorIs(t, err, sharingDomain.ErrLinkInvalid)
	})

	t.Run("unknown share is invalid", func(t *testing.T) {
		fixture := newShareFixture(t)

		_, err := fixture.useCase.Resolve(ctx, uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7()), "password")
		assert.ErrorIs(t, err, sharingDomain.ErrLinkInvalid)
	})

	t.Run("accept without resolve reports expired or missing", func(t *testing.T) {
		fixture := newShareFixture(t)
		credential := fixture.seedCredential(t, "secret1")

		created, err := fixture.useCase.Create(ctx, fixture.ownerID, credential.ID)
		require.NoError(t, err)

		recipientID := uuid.Must(uuid.NewV7())
		fixture.sessions.Hold(recipientID, newMasterKey(t))

		err = fixture.useCase.Accept(ctx, recipientID, created.ShareID)
		assert.ErrorIs(t, err, sharingDomain.ErrLinkExpiredOrMissing)
	})

	t.Run("lock between resolve and accept discards the pending key", func(t *testing.T) {
		fixture := newShareFixture(t)
		credential := fixture.seedCredential(t, "secret1")

		created, err := fixture.useCase.Create(ctx, fixture.ownerID, credential.ID)
		require.NoError(t, err)

		recipientID := uuid.Must(uuid.NewV7())
		fixture.sessions.Hold(recipientID, newMasterKey(t))
		_, err = fixture.useCase.Resolve(ctx, recipientID, created.ShareID, linkPassword(t, created.Link))
		require.NoError(t, err)

		fixture.sessions.Release(recipientID)
		fixture.sessions.Hold(recipientID, newMasterKey(t))

		err = fixture.useCase.Accept(ctx, recipientID, created.ShareID)
		assert.ErrorIs(t, err, sharingDomain.ErrLinkExpiredOrMissing)
	})

	t.Run("accept with a locked vault is rejected", func(t *testing.T) {
		fixture := newShareFixture(t)
		credential := fixture.seedCredential(t, "secret1")

		created, err := fixture.useCase.Create(ctx, fixture.ownerID, credential.ID)
		require.NoError(t, err)

		recipientID := uuid.Must(uuid.NewV7())
		err = fixture.useCase.Accept(ctx, recipientID, created.ShareID)
		assert.ErrorIs(t, err, apperrors.ErrLocked)
	})
}

func TestShareUseCase_Revoke(t *testing.T) {
	ctx := context.Background()

	t.Run("only the owner can revoke", func(t *testing.T) {
		fixture := newShareFixture(t)
		credential := fixture.seedCredential(t, "secret1")

		created, err := fixture.useCase.Create(ctx, fixture.ownerID, credential.ID)
		require.NoError(t, err)

		err = fixture.useCase.Revoke(ctx, uuid.Must(uuid.NewV7()), created.ShareID)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestShareUseCase_ListOwned(t *testing.T) {
	ctx := context.Background()

	fixture := newShareFixture(t)
	credential := fixture.seedCredential(t, "secret1")

	created, err := fixture.useCase.Create(ctx, fixture.ownerID, credential.ID)
	require.NoError(t, err)

	owned, err := fixture.useCase.ListOwned(ctx, fixture.ownerID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, created.ShareID, owned[0].ID)
}
