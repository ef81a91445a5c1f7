package kvstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// StoreTestSuite runs the same contract checks against every backend.
type StoreTestSuite struct {
	suite.Suite
	store   Store
	newFunc func(t *testing.T) Store
}

func (s *StoreTestSuite) SetupTest() {
	s.store = s.newFunc(s.T())
}

func (s *StoreTestSuite) TearDownTest() {
	if s.store != nil {
		s.store.Close()
	}
}

func (s *StoreTestSuite) TestStringRoundTrip() {
	ctx := context.Background()

	_, ok, err := s.store.GetString(ctx, "missing")
	require.NoError(s.T(), err)
	assert.False(s.T(), ok, "missing key must report absent")

	require.NoError(s.T(), s.store.SetString(ctx, "greeting", "hello"))
	v, ok, err := s.store.GetString(ctx, "greeting")
	require.NoError(s.T(), err)
	require.True(s.T(), ok)
	assert.Equal(s.T(), "hello", v)

	// Overwrite wins.
	require.NoError(s.T(), s.store.SetString(ctx, "greeting", "hi"))
	v, _, err = s.store.GetString(ctx, "greeting")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "hi", v)
}

func (s *StoreTestSuite) TestBoolRoundTrip() {
	ctx := context.Background()

	require.NoError(s.T(), s.store.SetBool(ctx, "flag", true))
	v, ok, err := s.store.GetBool(ctx, "flag")
	require.NoError(s.T(), err)
	require.True(s.T(), ok)
	assert.True(s.T(), v)

	_, ok, err = s.store.GetBool(ctx, "missing")
	require.NoError(s.T(), err)
	assert.False(s.T(), ok)
}

func (s *StoreTestSuite) TestFloatRoundTrip() {
	ctx := context.Background()

	require.NoError(s.T(), s.store.SetFloat(ctx, "budget", 1234.56))
	v, ok, err := s.store.GetFloat(ctx, "budget")
	require.NoError(s.T(), err)
	require.True(s.T(), ok)
	assert.Equal(s.T(), 1234.56, v)

	// Zero is a stored value, distinct from absent.
	require.NoError(s.T(), s.store.SetFloat(ctx, "zero", 0))
	v, ok, err = s.store.GetFloat(ctx, "zero")
	require.NoError(s.T(), err)
	require.True(s.T(), ok)
	assert.Equal(s.T(), 0.0, v)
}

func (s *StoreTestSuite) TestStringListRoundTrip() {
	ctx := context.Background()

	require.NoError(s.T(), s.store.SetStringList(ctx, "list", []string{"a", "b", "c"}))
	values, ok, err := s.store.GetStringList(ctx, "list")
	require.NoError(s.T(), err)
	require.True(s.T(), ok)
	assert.Equal(s.T(), []string{"a", "b", "c"}, values)

	// Empty list round-trips as present-but-empty.
	require.NoError(s.T(), s.store.SetStringList(ctx, "empty", nil))
	values, ok, err = s.store.GetStringList(ctx, "empty")
	require.NoError(s.T(), err)
	require.True(s.T(), ok)
	assert.Empty(s.T(), values)
}

func (s *StoreTestSuite) TestMalformedValues() {
	ctx := context.Background()

	require.NoError(s.T(), s.store.SetString(ctx, "bad_bool", "maybe"))
	_, _, err := s.store.GetBool(ctx, "bad_bool")
	assert.ErrorIs(s.T(), err, ErrMalformedValue)

	require.NoError(s.T(), s.store.SetString(ctx, "bad_float", "a lot"))
	_, _, err = s.store.GetFloat(ctx, "bad_float")
	assert.ErrorIs(s.T(), err, ErrMalformedValue)

	require.NoError(s.T(), s.store.SetString(ctx, "bad_list", "{not json"))
	_, _, err = s.store.GetStringList(ctx, "bad_list")
	assert.ErrorIs(s.T(), err, ErrMalformedValue)
}

func (s *StoreTestSuite) TestDelete() {
	ctx := context.Background()

	require.NoError(s.T(), s.store.SetString(ctx, "a", "1"))
	require.NoError(s.T(), s.store.SetString(ctx, "b", "2"))
	require.NoError(s.T(), s.store.SetString(ctx, "c", "3"))

	require.NoError(s.T(), s.store.Delete(ctx, "a", "b", "nope"))

	_, ok, err := s.store.GetString(ctx, "a")
	require.NoError(s.T(), err)
	assert.False(s.T(), ok)

	v, ok, err := s.store.GetString(ctx, "c")
	require.NoError(s.T(), err)
	require.True(s.T(), ok)
	assert.Equal(s.T(), "3", v)
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, &StoreTestSuite{
		newFunc: func(t *testing.T) Store { return NewMemoryStore() },
	})
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, &StoreTestSuite{
		newFunc: func(t *testing.T) Store {
			store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "kv.db"))
			require.NoError(t, err, "failed to create test store")
			return store
		},
	})
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SetString(ctx, "user_alice", `{"username":"alice"}`))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.GetString(ctx, "user_alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"username":"alice"}`, v)
}

func TestFactory(t *testing.T) {
	factory := NewFactory(nil)

	t.Run("memory backend", func(t *testing.T) {
		result, err := factory.CreateStore(FactoryConfig{Type: MemoryBackend})
		require.NoError(t, err)
		assert.NotNil(t, result.Store)
		assert.Nil(t, result.Cleanup)
	})

	t.Run("sqlite backend", func(t *testing.T) {
		result, err := factory.CreateStore(FactoryConfig{
			Type:         SQLiteBackend,
			SQLiteDBPath: filepath.Join(t.TempDir(), "kv.db"),
		})
		require.NoError(t, err)
		require.NotNil(t, result.Cleanup)
		assert.NoError(t, result.Cleanup())
	})

	t.Run("invalid backend", func(t *testing.T) {
		_, err := factory.CreateStore(FactoryConfig{Type: BackendType("redis")})
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrMalformedValue))
	})
}
