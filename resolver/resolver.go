package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erraggy/refinline"
	"github.com/erraggy/refinline/document"
	"github.com/erraggy/refinline/internal/jsonvalue"
	"github.com/erraggy/refinline/loader"
	"github.com/erraggy/refinline/referrors"
)

// Keys read and written by the resolver.
const (
	// RefKey marks an object to be replaced by the content it references.
	RefKey = "$ref"
	// FromRefKey is stamped with the verbatim $ref string.
	FromRefKey = "x-fromRef"
	// RefNameKey is stamped with the last segment of the referenced path.
	RefNameKey = "x-refName"
)

// errNoExternal is returned when a standalone resolution meets a $ref to
// another document.
var errNoExternal = errors.New("external references are not available in standalone resolution")

// Resolver replaces every $ref object in a document graph with the content
// it references, producing a single $ref-free JSON value.
//
// A Resolver holds no per-document state and is safe for concurrent use; all
// caching lives in the Stores passed to Resolve.
type Resolver struct {
	loader       loader.Loader
	logger       refinline.Logger
	maxDepth     int
	detectCycles bool
}

// New creates a Resolver.
func New(opts ...Option) (*Resolver, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("resolver: invalid options: %w", err)
	}

	logger := refinline.OrNop(cfg.logger)
	l := cfg.loader
	if l == nil {
		l, err = loader.New(loader.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("resolver: %w", err)
		}
	}

	return &Resolver{
		loader:       l,
		logger:       logger,
		maxDepth:     cfg.maxDepth,
		detectCycles: cfg.detectCycles,
	}, nil
}

// Resolve returns the fully resolved value of the document identified by id.
//
// When resolved already holds id, its cached value is returned without any
// work. Otherwise the document is taken from original (loading it through
// the loader at most once), a working copy is resolved against the untouched
// original, and the result is cached in resolved. The returned value is
// shared and must not be modified.
//
// Any error aborts the resolution and nothing is cached in resolved.
func (r *Resolver) Resolve(ctx context.Context, id document.Identity, original, resolved *Store) (any, error) {
	if original == nil || resolved == nil {
		return nil, errors.New("resolver: original and resolved stores are required")
	}
	if original == resolved {
		return nil, errors.New("resolver: original and resolved stores must be distinct")
	}

	return resolved.getOrLoad(id, func() (any, error) {
		start := time.Now()
		orig, err := original.getOrLoad(id, func() (any, error) {
			return r.load(ctx, id)
		})
		if err != nil {
			return nil, err
		}

		st := r.newState(ctx, original, resolved)
		value, err := st.resolveRoot(id, orig)
		if err != nil {
			return nil, err
		}

		r.logger.Debug("resolved document",
			"document", id.String(),
			"refs", st.refs,
			"elapsed", time.Since(start))
		return value, nil
	})
}

// ResolveStandalone resolves an in-memory document that only references
// itself. doc is not modified. A $ref to any other document fails with a
// load error.
func (r *Resolver) ResolveStandalone(doc any) (any, error) {
	st := r.newState(context.Background(), NewStore(), NewStore())
	st.standalone = true
	return st.resolveRoot(document.Inline(), doc)
}

// ResolveStandalone resolves a self-contained in-memory document with a
// default Resolver.
func ResolveStandalone(doc any) (any, error) {
	r, err := New(WithLoader(loader.Func(func(_ context.Context, id document.Identity) (any, error) {
		return nil, &referrors.LoadError{Document: id.String(), Cause: errNoExternal}
	})))
	if err != nil {
		return nil, err
	}
	return r.ResolveStandalone(doc)
}

// load calls the loader, making sure failures are reported as load errors.
func (r *Resolver) load(ctx context.Context, id document.Identity) (any, error) {
	v, err := r.loader.Load(ctx, id)
	if err != nil {
		if !errors.Is(err, referrors.ErrLoad) {
			err = &referrors.LoadError{Document: id.String(), Cause: err}
		}
		return nil, err
	}
	r.logger.Debug("loaded original document", "document", id.String())
	return v, nil
}

// location is a (document, in-document path) pair being resolved.
type location struct {
	doc  document.Identity
	path string
}

func (l location) String() string {
	return l.doc.String() + "#/" + l.path
}

// frame is the document context a value is resolved in: the document's
// identity and its pristine, as-loaded tree. Nested references are always
// looked up in the pristine tree, never in the copy being rewritten.
type frame struct {
	doc      document.Identity
	original any
}

// state is threaded through the recursion of one top-level resolution.
type state struct {
	*Resolver
	ctx        context.Context
	original   *Store
	resolved   *Store
	standalone bool

	active map[location]bool
	chain  []location
	refs   int
}

func (r *Resolver) newState(ctx context.Context, original, resolved *Store) *state {
	return &state{
		Resolver: r,
		ctx:      ctx,
		original: original,
		resolved: resolved,
		active:   make(map[location]bool),
	}
}

// resolveRoot resolves a deep copy of orig in the context of document id.
func (st *state) resolveRoot(id document.Identity, orig any) (any, error) {
	working := jsonvalue.Copy(orig)
	root := location{doc: id}
	if err := st.enter(root, ""); err != nil {
		return nil, err
	}
	defer st.leave(root)

	if err := st.resolveValue(frame{doc: id, original: orig}, working, 0); err != nil {
		return nil, err
	}
	return working, nil
}

// resolveValue rewrites v in place. Arrays are walked in order; scalars are
// left alone.
func (st *state) resolveValue(fr frame, v any, depth int) error {
	switch t := v.(type) {
	case *jsonvalue.Object, map[string]any:
		return st.resolveObject(fr, t, depth)
	case []any:
		for _, item := range t {
			if err := st.resolveValue(fr, item, depth); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveObject substitutes obj's own $ref, if any, then resolves the keys
// obj had before substitution in their original order. Keys merged in from
// the reference are already fully resolved, and so is the provenance stamped
// by the substitution.
func (st *state) resolveObject(fr frame, obj any, depth int) error {
	var merged any
	if raw, ok := jsonvalue.Get(obj, RefKey); ok {
		jsonvalue.Delete(obj, RefKey)
		ref, ok := raw.(string)
		if !ok {
			return &referrors.RefTypeError{Document: fr.doc.String(), Value: raw}
		}
		var err error
		merged, err = st.substitute(fr, obj, ref, depth)
		if err != nil {
			return &referrors.ReferenceError{Ref: ref, Document: fr.doc.String(), Cause: err}
		}
	}

	for _, k := range jsonvalue.Keys(obj) {
		if merged != nil {
			if _, ok := jsonvalue.Get(merged, k); ok {
				continue
			}
			if k == FromRefKey || k == RefNameKey {
				continue
			}
		}
		v, _ := jsonvalue.Get(obj, k)
		if err := st.resolveValue(fr, v, depth); err != nil {
			return err
		}
	}
	return nil
}

// substitute fetches and resolves the content ref points at and merges it
// into obj, in the referenced object's key order. It returns the merged
// object.
//
// Provenance is stamped before merging, so in a chain of references the
// innermost $ref's provenance survives.
func (st *state) substitute(fr frame, obj any, ref string, depth int) (any, error) {
	if depth >= st.maxDepth {
		return nil, &referrors.ResourceLimitError{
			ResourceType: "ref_depth",
			Limit:        int64(st.maxDepth),
			Actual:       int64(depth + 1),
			Message:      "too many nested $ref hops",
		}
	}

	target, err := Locate(fr.doc, ref)
	if err != nil {
		return nil, err
	}
	st.refs++

	var value any
	if target.Nested {
		value, err = st.resolveSubtree(fr, target, ref, depth)
	} else {
		value, err = st.resolveExternal(target, ref, depth)
	}
	if err != nil {
		return nil, err
	}

	if !jsonvalue.IsObject(value) {
		return nil, &referrors.TargetTypeError{Ref: ref, Got: referrors.TypeName(value)}
	}

	jsonvalue.Set(obj, FromRefKey, ref)
	jsonvalue.Set(obj, RefNameKey, target.Name)
	for _, k := range jsonvalue.Keys(value) {
		v, _ := jsonvalue.Get(value, k)
		jsonvalue.Set(obj, k, v)
	}

	st.logger.Debug("substituted reference",
		"ref", ref,
		"document", fr.doc.String(),
		"target", target.Document.String(),
		"nested", target.Nested)
	return value, nil
}

// resolveExternal resolves a reference into another document. A document
// already in the resolved store is used as-is; otherwise the referenced
// subtree of its original is resolved in that document's own context.
func (st *state) resolveExternal(target Target, ref string, depth int) (any, error) {
	if done, ok := st.resolved.Get(target.Document); ok {
		return lookup(done, target.Path)
	}

	if st.standalone {
		return nil, &referrors.LoadError{Document: target.Document.String(), Cause: errNoExternal}
	}

	orig, err := st.original.getOrLoad(target.Document, func() (any, error) {
		return st.load(st.ctx, target.Document)
	})
	if err != nil {
		return nil, err
	}

	return st.resolveSubtree(frame{doc: target.Document, original: orig}, target, ref, depth)
}

// resolveSubtree copies the subtree at target.Path out of fr's pristine tree
// and resolves the copy in fr's context.
func (st *state) resolveSubtree(fr frame, target Target, ref string, depth int) (any, error) {
	sub, err := lookup(fr.original, target.Path)
	if err != nil {
		return nil, err
	}

	loc := location{doc: fr.doc, path: canonicalPath(target.Path)}
	if err := st.enter(loc, ref); err != nil {
		return nil, err
	}
	defer st.leave(loc)

	sub = jsonvalue.Copy(sub)
	if err := st.resolveValue(fr, sub, depth+1); err != nil {
		return nil, err
	}
	return sub, nil
}

// enter marks loc as being resolved, failing if it already is.
func (st *state) enter(loc location, ref string) error {
	if !st.detectCycles {
		return nil
	}
	if st.active[loc] {
		chain := make([]string, 0, len(st.chain)+1)
		for _, l := range st.chain {
			chain = append(chain, l.String())
		}
		chain = append(chain, loc.String())
		return &referrors.CycleError{Ref: ref, Document: loc.doc.String(), Chain: chain}
	}
	st.active[loc] = true
	st.chain = append(st.chain, loc)
	return nil
}

func (st *state) leave(loc location) {
	if !st.detectCycles {
		return
	}
	delete(st.active, loc)
	st.chain = st.chain[:len(st.chain)-1]
}
