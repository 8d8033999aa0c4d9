package resolver

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/refinline"
	"github.com/erraggy/refinline/document"
	"github.com/erraggy/refinline/internal/jsonvalue"
	"github.com/erraggy/refinline/loader"
	"github.com/erraggy/refinline/referrors"
)

// memLoader serves documents from memory and counts loads per identity.
type memLoader struct {
	mu    sync.Mutex
	docs  map[string]any
	calls map[string]int
}

func newMemLoader(docs map[string]any) *memLoader {
	return &memLoader{docs: docs, calls: make(map[string]int)}
}

func (m *memLoader) Load(_ context.Context, id document.Identity) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[id.String()]++
	doc, ok := m.docs[id.String()]
	if !ok {
		return nil, errors.New("no such document")
	}
	return jsonvalue.Copy(doc), nil
}

func (m *memLoader) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func newResolver(t *testing.T, l loader.Loader, opts ...Option) *Resolver {
	t.Helper()
	r, err := New(append([]Option{WithLoader(l)}, opts...)...)
	require.NoError(t, err)
	return r
}

func resolve(t *testing.T, r *Resolver, name string) (any, error) {
	t.Helper()
	return r.Resolve(context.Background(), document.Parse(name), NewStore(), NewStore())
}

func TestResolveNestedReference(t *testing.T) {
	l := newMemLoader(map[string]any{
		"api.json": map[string]any{
			"a": map[string]any{"$ref": "#/b"},
			"b": map[string]any{"x": 1.0},
		},
	})

	got, err := resolve(t, newResolver(t, l), "api.json")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": map[string]any{"x": 1.0, "x-fromRef": "#/b", "x-refName": "b"},
		"b": map[string]any{"x": 1.0},
	}, got)
}

func TestResolveTwoHopExternalChain(t *testing.T) {
	l := newMemLoader(map[string]any{
		"d1.json": map[string]any{"$ref": "d2.json#/v"},
		"d2.json": map[string]any{"v": map[string]any{"$ref": "d3.json#/w"}},
		"d3.json": map[string]any{"w": map[string]any{"k": 1.0}},
	})

	got, err := resolve(t, newResolver(t, l), "d1.json")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": 1.0, "x-fromRef": "d3.json#/w", "x-refName": "w"}, got)

	for _, name := range []string{"d1.json", "d2.json", "d3.json"} {
		assert.Equal(t, 1, l.count(name), name)
	}
}

func TestResolveRelativeDocuments(t *testing.T) {
	l := newMemLoader(map[string]any{
		"specs/v1/api.json": map[string]any{
			"pet": map[string]any{"$ref": "../common/pet.json#/Pet"},
		},
		"specs/common/pet.json": map[string]any{
			"Pet": map[string]any{
				"tag": map[string]any{"$ref": "#/Tag"},
			},
			"Tag": map[string]any{"type": "string"},
		},
	})

	got, err := resolve(t, newResolver(t, l), "specs/v1/api.json")
	require.NoError(t, err)

	pet := got.(map[string]any)["pet"].(map[string]any)
	assert.Equal(t, "../common/pet.json#/Pet", pet["x-fromRef"])
	assert.Equal(t, "Pet", pet["x-refName"])
	assert.Equal(t, map[string]any{
		"type":      "string",
		"x-fromRef": "#/Tag",
		"x-refName": "Tag",
	}, pet["tag"], "nested refs inside an external document resolve against that document")
}

func TestResolveCaching(t *testing.T) {
	l := newMemLoader(map[string]any{
		"api.json": map[string]any{
			"a":   map[string]any{"$ref": "lib.json#/A"},
			"b":   map[string]any{"$ref": "lib.json#/B"},
			"arr": []any{map[string]any{"$ref": "lib.json#/A"}, "plain"},
		},
		"lib.json": map[string]any{
			"A": map[string]any{"n": 1.0},
			"B": map[string]any{"n": 2.0},
		},
	})
	r := newResolver(t, l)
	original, resolved := NewStore(), NewStore()
	id := document.Local("api.json")

	first, err := r.Resolve(context.Background(), id, original, resolved)
	require.NoError(t, err)

	second, err := r.Resolve(context.Background(), id, original, resolved)
	require.NoError(t, err)

	assert.Equal(t, reflect.ValueOf(first).Pointer(), reflect.ValueOf(second).Pointer(),
		"second call returns the shared cached value")
	assert.Equal(t, 1, l.count("api.json"))
	assert.Equal(t, 1, l.count("lib.json"))

	arr := first.(map[string]any)["arr"].([]any)
	assert.Equal(t, "lib.json#/A", arr[0].(map[string]any)["x-fromRef"])
	assert.Equal(t, "plain", arr[1])

	assert.Equal(t, 2, original.Len())
	assert.Equal(t, 1, resolved.Len())
}

func TestResolveUsesResolvedStore(t *testing.T) {
	l := newMemLoader(map[string]any{
		"lib.json": map[string]any{
			"A": map[string]any{"inner": map[string]any{"$ref": "#/B"}},
			"B": map[string]any{"v": true},
		},
		"api.json": map[string]any{"a": map[string]any{"$ref": "lib.json#/A"}},
	})
	r := newResolver(t, l)
	original, resolved := NewStore(), NewStore()
	ctx := context.Background()

	_, err := r.Resolve(ctx, document.Local("lib.json"), original, resolved)
	require.NoError(t, err)

	got, err := r.Resolve(ctx, document.Local("api.json"), original, resolved)
	require.NoError(t, err)

	a := got.(map[string]any)["a"].(map[string]any)
	inner := a["inner"].(map[string]any)
	assert.Equal(t, true, inner["v"])
	assert.Equal(t, "#/B", inner["x-fromRef"])
	assert.Equal(t, 1, l.count("lib.json"))
}

func TestResolveDoesNotModifyOriginal(t *testing.T) {
	orig := map[string]any{
		"a": map[string]any{"$ref": "#/b", "extra": 1.0},
		"b": map[string]any{"x": 1.0},
	}
	snapshot := jsonvalue.Copy(orig)

	original, resolved := NewStore(), NewStore()
	original.Put(document.Local("api.json"), orig)

	r := newResolver(t, newMemLoader(nil))
	_, err := r.Resolve(context.Background(), document.Local("api.json"), original, resolved)
	require.NoError(t, err)
	assert.Equal(t, snapshot, orig)
}

func TestResolveMergePrecedence(t *testing.T) {
	got, err := ResolveStandalone(map[string]any{
		"a": map[string]any{
			"$ref": "#/b",
			"x":    "own",
			"y":    "own",
		},
		"b": map[string]any{"x": "referenced"},
	})
	require.NoError(t, err)

	a := got.(map[string]any)["a"].(map[string]any)
	assert.Equal(t, "referenced", a["x"], "referenced keys win")
	assert.Equal(t, "own", a["y"])
}

func TestResolveSiblingRefsInsideOwnKeys(t *testing.T) {
	got, err := ResolveStandalone(map[string]any{
		"a": map[string]any{
			"$ref":  "#/b",
			"child": map[string]any{"$ref": "#/c"},
		},
		"b": map[string]any{"x": 1.0},
		"c": map[string]any{"y": 2.0},
	})
	require.NoError(t, err)
	assert.False(t, jsonvalue.ContainsKey(got, RefKey))

	child := got.(map[string]any)["a"].(map[string]any)["child"].(map[string]any)
	assert.Equal(t, 2.0, child["y"])
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name     string
		doc      map[string]any
		sentinel error
		check    func(t *testing.T, err error)
	}{
		{
			name:     "missing key",
			doc:      map[string]any{"$ref": "#/missing/path"},
			sentinel: referrors.ErrKeyNotFound,
			check: func(t *testing.T, err error) {
				var keyErr *referrors.KeyNotFoundError
				require.ErrorAs(t, err, &keyErr)
				assert.Equal(t, "missing", keyErr.Key)
			},
		},
		{
			name:     "segment not an object",
			doc:      map[string]any{"a": map[string]any{"$ref": "#/b/c"}, "b": "text"},
			sentinel: referrors.ErrNotAnObject,
			check: func(t *testing.T, err error) {
				var objErr *referrors.NotAnObjectError
				require.ErrorAs(t, err, &objErr)
				assert.Equal(t, "c", objErr.Segment)
			},
		},
		{
			name:     "ref must be a string",
			doc:      map[string]any{"a": map[string]any{"$ref": 5.0}},
			sentinel: referrors.ErrRefMustBeString,
		},
		{
			name:     "target must be an object",
			doc:      map[string]any{"a": map[string]any{"$ref": "#/b"}, "b": []any{1.0}},
			sentinel: referrors.ErrRefTargetMustBeObject,
			check: func(t *testing.T, err error) {
				var typeErr *referrors.TargetTypeError
				require.ErrorAs(t, err, &typeErr)
				assert.Equal(t, "array", typeErr.Got)
			},
		},
		{
			name:     "too many fragments",
			doc:      map[string]any{"a": map[string]any{"$ref": "#/b#c"}},
			sentinel: referrors.ErrTooManyFragments,
		},
		{
			name:     "external reference",
			doc:      map[string]any{"a": map[string]any{"$ref": "other.json#/x"}},
			sentinel: referrors.ErrLoad,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveStandalone(tt.doc)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestResolveErrorCarriesRef(t *testing.T) {
	_, err := ResolveStandalone(map[string]any{
		"a": map[string]any{"$ref": "#/defs/Missing"},
		"defs": map[string]any{"Other": map[string]any{}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, referrors.ErrReference)

	var refErr *referrors.ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "#/defs/Missing", refErr.Ref)
	assert.Equal(t, "<inline>", refErr.Document)
	assert.Contains(t, err.Error(), `"Missing"`)
	assert.Contains(t, err.Error(), `{"Other":{}}`)
}

func TestResolveCycles(t *testing.T) {
	t.Run("mutual nested", func(t *testing.T) {
		_, err := ResolveStandalone(map[string]any{
			"a": map[string]any{"$ref": "#/b"},
			"b": map[string]any{"$ref": "#/a"},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, referrors.ErrCyclicReference)

		var cycleErr *referrors.CycleError
		require.ErrorAs(t, err, &cycleErr)
		assert.Equal(t, []string{"<inline>#/", "<inline>#/b", "<inline>#/a", "<inline>#/b"}, cycleErr.Chain)
	})

	t.Run("self reference", func(t *testing.T) {
		_, err := ResolveStandalone(map[string]any{
			"node": map[string]any{"next": map[string]any{"$ref": "#/node"}},
		})
		assert.ErrorIs(t, err, referrors.ErrCyclicReference)
	})

	t.Run("root reference", func(t *testing.T) {
		_, err := ResolveStandalone(map[string]any{"a": map[string]any{"$ref": "#"}})
		assert.ErrorIs(t, err, referrors.ErrCyclicReference)
	})

	t.Run("across documents", func(t *testing.T) {
		l := newMemLoader(map[string]any{
			"a.json": map[string]any{"x": map[string]any{"$ref": "b.json#/y"}},
			"b.json": map[string]any{"y": map[string]any{"$ref": "a.json#/x"}},
		})
		_, err := resolve(t, newResolver(t, l), "a.json")
		assert.ErrorIs(t, err, referrors.ErrCyclicReference)
	})

	t.Run("reused target is not a cycle", func(t *testing.T) {
		got, err := ResolveStandalone(map[string]any{
			"a": map[string]any{"$ref": "#/c"},
			"b": map[string]any{"$ref": "#/c"},
			"c": map[string]any{"v": 1.0},
		})
		require.NoError(t, err)
		root := got.(map[string]any)
		assert.Equal(t, 1.0, root["a"].(map[string]any)["v"])
		assert.Equal(t, 1.0, root["b"].(map[string]any)["v"])
	})
}

func TestResolveDepthLimit(t *testing.T) {
	doc := map[string]any{
		"a": map[string]any{"$ref": "#/b"},
		"b": map[string]any{"$ref": "#/c"},
		"c": map[string]any{"$ref": "#/d"},
		"d": map[string]any{"end": true},
	}

	r := newResolver(t, newMemLoader(nil), WithMaxDepth(2))
	_, err := r.ResolveStandalone(doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, referrors.ErrResourceLimit)

	r = newResolver(t, newMemLoader(nil), WithMaxDepth(3))
	_, err = r.ResolveStandalone(doc)
	assert.NoError(t, err)

	t.Run("cycle without detection hits the limit", func(t *testing.T) {
		r := newResolver(t, newMemLoader(nil), WithCycleDetection(false), WithMaxDepth(10))
		_, err := r.ResolveStandalone(map[string]any{
			"a": map[string]any{"$ref": "#/b"},
			"b": map[string]any{"$ref": "#/a"},
		})
		assert.ErrorIs(t, err, referrors.ErrResourceLimit)
	})
}

func TestResolveLoaderFailure(t *testing.T) {
	l := loader.Func(func(_ context.Context, id document.Identity) (any, error) {
		if id.String() == "api.json" {
			return map[string]any{"a": map[string]any{"$ref": "gone.json#/x"}}, nil
		}
		return nil, errors.New("connection refused")
	})
	r := newResolver(t, l)
	original, resolved := NewStore(), NewStore()

	_, err := r.Resolve(context.Background(), document.Local("api.json"), original, resolved)
	require.Error(t, err)
	assert.ErrorIs(t, err, referrors.ErrLoad)
	assert.ErrorIs(t, err, referrors.ErrReference)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Contains(t, err.Error(), "gone.json")

	assert.Equal(t, 0, resolved.Len(), "failed resolutions are not cached")
}

func TestResolveStandaloneDoesNotModifyInput(t *testing.T) {
	doc := map[string]any{
		"a": map[string]any{"$ref": "#/b"},
		"b": map[string]any{"x": 1.0},
	}
	snapshot := jsonvalue.Copy(doc)

	got, err := ResolveStandalone(doc)
	require.NoError(t, err)
	assert.Equal(t, snapshot, doc)
	assert.NotEqual(t, doc, got)
}

func TestResolveScalarsAndArrays(t *testing.T) {
	got, err := ResolveStandalone([]any{"x", 1.0, nil, map[string]any{"$ref": "#/0"}})
	// arrays cannot be walked by in-document paths
	require.Error(t, err)
	assert.ErrorIs(t, err, referrors.ErrNotAnObject)
	assert.Nil(t, got)

	got, err = ResolveStandalone("just a string")
	require.NoError(t, err)
	assert.Equal(t, "just a string", got)
}

func TestResolveInvalidStores(t *testing.T) {
	r := newResolver(t, newMemLoader(nil))
	s := NewStore()

	_, err := r.Resolve(context.Background(), document.Local("a.json"), nil, s)
	assert.Error(t, err)

	_, err = r.Resolve(context.Background(), document.Local("a.json"), s, s)
	assert.Error(t, err)
}

func TestResolveRemote(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/api.yaml", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pet:\n  $ref: common.json#/Pet\n"))
	})
	mux.HandleFunc("/v1/common.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Pet": {"type": "object"}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	l, err := loader.New(loader.WithHTTPClient(server.Client()))
	require.NoError(t, err)

	got, err := resolve(t, newResolver(t, l), server.URL+"/v1/api.yaml")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"pet": map[string]any{
			"type":      "object",
			"x-fromRef": "common.json#/Pet",
			"x-refName": "Pet",
		},
	}, jsonvalue.Plain(got))
}

func TestResolveRemoteNonCanonicalRoot(t *testing.T) {
	var mu sync.Mutex
	hits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/api.yaml", func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		_, _ = w.Write([]byte("pet:\n  $ref: api.yaml#/defs/Pet\ndefs:\n  Pet:\n    type: object\n"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	l, err := loader.New(loader.WithHTTPClient(server.Client()))
	require.NoError(t, err)

	original := NewStore()
	got, err := newResolver(t, l).Resolve(context.Background(),
		document.Parse(server.URL+"/v1/./x/../api.yaml"), original, NewStore())
	require.NoError(t, err)
	assert.False(t, jsonvalue.ContainsKey(got, RefKey))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, hits, "the root and its self reference are one document")
	assert.Equal(t, 1, original.Len())
}

func TestResolveKeepsSourceKeyOrder(t *testing.T) {
	doc, err := loader.Decode([]byte("zeta: 1\nalpha: 2\nmid: {$ref: '#/zeta2', note: own}\nzeta2: {y: 1, b: 2}\n"), document.FormatYAML)
	require.NoError(t, err)

	got, err := ResolveStandalone(doc)
	require.NoError(t, err)
	assert.Equal(t,
		`{"zeta":1,"alpha":2,"mid":{"note":"own","x-fromRef":"#/zeta2","x-refName":"zeta2","y":1,"b":2},"zeta2":{"y":1,"b":2}}`,
		jsonvalue.Compact(got))
}

func TestResolveSiblingsInSourceOrder(t *testing.T) {
	doc, err := loader.Decode([]byte(`{"z": {"$ref": "#/defs/Z"}, "a": {"$ref": "#/defs/A"}, "defs": {"Z": {}, "A": {}}}`), document.FormatJSON)
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := refinline.NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	r, err := New(WithLogger(logger))
	require.NoError(t, err)

	_, err = r.ResolveStandalone(doc)
	require.NoError(t, err)

	out := buf.String()
	z := strings.Index(out, "ref=#/defs/Z")
	a := strings.Index(out, "ref=#/defs/A")
	require.NotEqual(t, -1, z)
	require.NotEqual(t, -1, a)
	assert.Less(t, z, a, "z is declared first and substituted first")
}

func TestResolveRefInsideProvenanceKeyOfSource(t *testing.T) {
	got, err := ResolveStandalone(map[string]any{
		"a": map[string]any{
			"x-fromRef": map[string]any{"$ref": "#/b"},
			"x-refName": []any{map[string]any{"$ref": "#/b"}},
		},
		"b": map[string]any{"x": 1.0},
	})
	require.NoError(t, err)
	assert.False(t, jsonvalue.ContainsKey(got, RefKey))

	a := got.(map[string]any)["a"].(map[string]any)
	assert.Equal(t, 1.0, a["x-fromRef"].(map[string]any)["x"])
}

func TestNewOptionErrors(t *testing.T) {
	_, err := New(WithLoader(nil))
	assert.Error(t, err)

	_, err = New(WithMaxDepth(0))
	assert.Error(t, err)

	r, err := New()
	require.NoError(t, err)
	assert.NotNil(t, r.loader)
}
