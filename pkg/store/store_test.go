package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/classgraph/pkg/errors"
	"github.com/matzehuels/classgraph/pkg/model"
)

func sampleGraph(t *testing.T) *model.Graph {
	t.Helper()
	g := model.NewGraph()
	_, err := g.AddNode(model.Node{ID: "Animal", Name: "Animal"})
	require.NoError(t, err)
	_, err = g.AddNode(model.Node{ID: "Dog", Name: "Dog", Attributes: []model.Attribute{{Name: "breed", Type: model.TypeString}}})
	require.NoError(t, err)
	require.NoError(t, g.Connect("Dog", "Animal", model.Inheritance, false))
	return g
}

// storeContract runs the behaviour every backend must share.
func storeContract(t *testing.T, s Store) {
	ctx := context.Background()
	g := sampleGraph(t)

	p := NewProject("zoo", "alice", g)
	require.NoError(t, s.Put(ctx, p))
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, 2, p.NodeCount)

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "zoo", got.Name)
	assert.Equal(t, "alice", got.Owner)

	back, err := got.Graph()
	require.NoError(t, err)
	assert.Equal(t, g.Fingerprint(), back.Fingerprint())
	assert.Empty(t, back.Validate())

	created := got.CreatedAt
	time.Sleep(5 * time.Millisecond)
	got.Name = "zoo v2"
	require.NoError(t, s.Put(ctx, got))
	again, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "zoo v2", again.Name)
	assert.True(t, again.CreatedAt.Equal(created), "CreatedAt preserved")
	assert.True(t, again.UpdatedAt.After(created))

	time.Sleep(5 * time.Millisecond)
	other := NewProject("garden", "bob", model.NewGraph())
	require.NoError(t, s.Put(ctx, other))

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, other.ID, all[0].ID, "newest first")

	mine, err := s.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 2, mine[0].NodeCount)

	require.NoError(t, s.Delete(ctx, p.ID))
	_, err = s.Get(ctx, p.ID)
	assert.True(t, errors.IsNotFound(err))
	assert.True(t, errors.Is(s.Delete(ctx, p.ID), errors.ErrCodeProjectNotFound))
	require.NoError(t, s.Delete(ctx, other.ID))
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "projects"))
	require.NoError(t, err)
	defer s.Close()
	storeContract(t, s)
}

func TestFileStoreRejectsBadIDs(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Get(ctx, "../etc/passwd")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidID))

	p := &Project{ID: "a/b", Name: "x"}
	assert.True(t, errors.Is(s.Put(ctx, p), errors.ErrCodeInvalidID))

	p = &Project{ID: "ok", Name: "  "}
	assert.True(t, errors.Is(s.Put(ctx, p), errors.ErrCodeInvalidInput))
}

func TestFileStoreSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.json"), []byte("{"), 0o600))

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, NewProject("real", "", model.NewGraph())))

	list, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = s.Get(ctx, "junk")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestNewFileStoreRequiresDir(t *testing.T) {
	_, err := NewFileStore("")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("CLASSGRAPH_MONGO_URI")
	if uri == "" {
		t.Skip("CLASSGRAPH_MONGO_URI not set")
	}
	ctx := context.Background()
	db := "classgraph_test_" + model.NewID()[:8]
	s, err := NewMongoStore(ctx, uri, db)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.client.Database(db).Drop(context.Background())
		_ = s.Close()
	})
	storeContract(t, s)
}
