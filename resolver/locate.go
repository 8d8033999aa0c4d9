package resolver

import (
	"strings"

	"github.com/erraggy/refinline/document"
	"github.com/erraggy/refinline/internal/jsonvalue"
	"github.com/erraggy/refinline/referrors"
)

// Target is the interpretation of one $ref string.
type Target struct {
	// Document is the identity of the referenced document.
	Document document.Identity
	// Path is the in-document path with its leading '/' removed.
	Path string
	// HasPath reports whether the $ref had a '#' introducing a path.
	HasPath bool
	// Nested reports whether Document is the document containing the $ref.
	Nested bool
	// Name is the last segment of Path, or "".
	Name string
}

// Locate interprets ref as written inside the document identified by current.
//
// The part before '#' names the target document and is related to current;
// when it is empty the target is current itself. The part after '#' is a
// '/' separated key path. No JSON Pointer escaping is applied.
func Locate(current document.Identity, ref string) (Target, error) {
	parts := strings.Split(ref, "#")
	if len(parts) > 2 {
		return Target{}, &referrors.FragmentError{Ref: ref}
	}

	target := Target{Document: current}
	if parts[0] != "" {
		id, err := document.Parse(parts[0]).RelateFrom(current)
		if err != nil {
			return Target{}, err
		}
		target.Document = id
	}

	if len(parts) == 2 {
		target.HasPath = true
		target.Path = strings.TrimPrefix(parts[1], "/")
		if i := strings.LastIndex(target.Path, "/"); i >= 0 {
			target.Name = target.Path[i+1:]
		} else {
			target.Name = target.Path
		}
	}

	target.Nested = target.Document == current
	return target, nil
}

// lookup walks p through root one object key at a time. Empty segments are
// skipped, so "" and "/" both denote root.
func lookup(root any, p string) (any, error) {
	current := root
	for _, seg := range strings.Split(p, "/") {
		if seg == "" {
			continue
		}
		if !jsonvalue.IsObject(current) {
			return nil, &referrors.NotAnObjectError{
				Segment: seg,
				Path:    "/" + p,
				Got:     referrors.TypeName(current),
			}
		}
		next, ok := jsonvalue.Get(current, seg)
		if !ok {
			return nil, &referrors.KeyNotFoundError{
				Key:     seg,
				Path:    "/" + p,
				Context: jsonvalue.Compact(current),
			}
		}
		current = next
	}
	return current, nil
}

// canonicalPath drops empty segments so equivalent paths compare equal.
func canonicalPath(p string) string {
	if !strings.Contains(p, "//") && !strings.HasPrefix(p, "/") && !strings.HasSuffix(p, "/") {
		return p
	}
	segs := strings.Split(p, "/")
	out := segs[:0]
	for _, s := range segs {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}
