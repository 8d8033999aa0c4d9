package resolver

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/refinline/document"
)

func TestStoreGetPut(t *testing.T) {
	s := NewStore()
	id := document.Local("a.json")

	_, ok := s.Get(id)
	assert.False(t, ok)

	s.Put(id, map[string]any{"a": 1.0})
	v, ok := s.Get(document.Local("./a.json"))
	require.True(t, ok, "normalized identities share an entry")
	assert.Equal(t, map[string]any{"a": 1.0}, v)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, StoreStats{Hits: 1, Misses: 1}, s.Stats())
}

func TestStoreIdentities(t *testing.T) {
	s := NewStore()
	s.Put(document.Parse("https://example.com/api.json"), nil)
	s.Put(document.Local("b.json"), nil)
	s.Put(document.Local("a.json"), nil)

	ids := s.Identities()
	require.Len(t, ids, 3)
	assert.Equal(t, "a.json", ids[0].String())
	assert.Equal(t, "b.json", ids[1].String())
	assert.Equal(t, document.KindRemote, ids[2].Kind())
}

func TestStoreReset(t *testing.T) {
	s := NewStore()
	s.Put(document.Local("a.json"), 1.0)
	s.Get(document.Local("a.json"))

	s.Reset()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, StoreStats{}, s.Stats())
}

func TestStoreGetOrLoadSingleFlight(t *testing.T) {
	s := NewStore()
	id := document.Local("shared.json")

	var calls atomic.Int32
	release := make(chan struct{})
	load := func() (any, error) {
		calls.Add(1)
		<-release
		return map[string]any{"shared": true}, nil
	}

	const workers = 32
	var wg sync.WaitGroup
	results := make([]any, workers)
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = s.getOrLoad(id, load)
		}()
	}

	// give the goroutines time to pile up on the in-flight load
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for i := range workers {
		require.NoError(t, errs[i])
		assert.Equal(t, map[string]any{"shared": true}, results[i])
	}
	assert.Equal(t, int64(1), s.Stats().Loads)
}

func TestStoreGetOrLoadErrorsNotCached(t *testing.T) {
	s := NewStore()
	id := document.Local("flaky.json")

	_, err := s.getOrLoad(id, func() (any, error) {
		return nil, errors.New("temporary failure")
	})
	require.Error(t, err)
	assert.Equal(t, 0, s.Len())

	v, err := s.getOrLoad(id, func() (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)

	v, err = s.getOrLoad(id, func() (any, error) {
		t.Fatal("cached value should be used")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}
