package document

import (
	"net/url"
	"path"
	"strings"

	"github.com/erraggy/refinline/referrors"
)

// Kind is the variant of an Identity.
type Kind uint8

const (
	// KindInline identifies an in-memory document with no backing source.
	KindInline Kind = iota
	// KindLocal identifies a document by file path.
	KindLocal
	// KindRemote identifies a document by absolute URL.
	KindRemote
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindRemote:
		return "remote"
	default:
		return "inline"
	}
}

// inlineName is how Inline identities print.
const inlineName = "<inline>"

// Identity identifies a document: a URL, a file path, or no document at all.
//
// Identity is comparable and is used directly as a map key. Every constructor
// normalizes its input, so two identities naming the same document compare
// equal. The zero value is the Inline identity.
type Identity struct {
	kind  Kind
	value string
}

// Inline returns the identity of an in-memory, self-contained document.
func Inline() Identity {
	return Identity{}
}

// Local returns the identity of a file path. Backslashes are treated as path
// separators and dot segments are collapsed textually; the file system is
// never consulted. A blank path yields the Inline identity.
func Local(p string) Identity {
	p = strings.TrimSpace(p)
	if p == "" {
		return Inline()
	}
	return Identity{kind: KindLocal, value: normalizeLocal(p)}
}

// Remote returns the identity of an absolute URL. The scheme and host are
// lower-cased, dot segments in the path are collapsed and the fragment is
// dropped. A nil or relative URL yields the Inline identity.
func Remote(u *url.URL) Identity {
	if u == nil || !u.IsAbs() {
		return Inline()
	}
	// Resolving the empty reference removes dot segments and keeps a
	// trailing slash.
	c := u.ResolveReference(&url.URL{})
	c.Scheme = strings.ToLower(c.Scheme)
	c.Host = strings.ToLower(c.Host)
	c.Fragment = ""
	c.RawFragment = ""
	return Identity{kind: KindRemote, value: c.String()}
}

// Parse turns a document reference string into an Identity.
//
// A blank string is Inline. A string that parses as an absolute URL is Remote.
// Anything else is Local. Single-letter schemes are not URLs, so Windows paths
// such as C:\specs\api.yaml stay Local.
func Parse(s string) Identity {
	s = strings.TrimSpace(s)
	if s == "" {
		return Inline()
	}
	if u, err := url.Parse(s); err == nil && u.IsAbs() && len(u.Scheme) > 1 {
		return Remote(u)
	}
	return Local(s)
}

// Kind returns the identity's variant.
func (id Identity) Kind() Kind {
	return id.kind
}

// IsInline reports whether the identity has no backing document.
func (id Identity) IsInline() bool {
	return id.kind == KindInline
}

// String returns the normalized path or URL, or "<inline>".
func (id Identity) String() string {
	if id.kind == KindInline {
		return inlineName
	}
	return id.value
}

// Key returns a string unique to the identity, suitable for keyed lookups
// that cannot use the Identity value itself.
func (id Identity) Key() string {
	return id.kind.String() + ":" + id.value
}

// Path returns the file path of a Local identity, the URL path of a Remote
// identity, or "" for Inline.
func (id Identity) Path() string {
	switch id.kind {
	case KindLocal:
		return id.value
	case KindRemote:
		if u, err := url.Parse(id.value); err == nil {
			return u.Path
		}
	}
	return ""
}

// URL returns the parsed URL of a Remote identity, or nil otherwise.
func (id Identity) URL() *url.URL {
	if id.kind != KindRemote {
		return nil
	}
	u, err := url.Parse(id.value)
	if err != nil {
		return nil
	}
	return u
}

// Format returns the format hinted by the identity's suffix.
func (id Identity) Format() Format {
	return DetectFormat(id.Path())
}

// RelateFrom computes the identity that id denotes when it is written inside
// the document identified by base:
//
//   - a Remote id always wins as-is
//   - an Inline id yields base
//   - a Local id is resolved against a Remote base with URL reference
//     resolution, joined onto the parent directory of a Local base, and
//     wins as-is against an Inline base
func (id Identity) RelateFrom(base Identity) (Identity, error) {
	switch id.kind {
	case KindRemote:
		return id, nil
	case KindInline:
		return base, nil
	}

	switch base.kind {
	case KindRemote:
		return relateURL(base, id)
	case KindLocal:
		if isAbsLocal(id.value) {
			return id, nil
		}
		return Identity{kind: KindLocal, value: path.Join(path.Dir(base.value), id.value)}, nil
	default:
		return id, nil
	}
}

func relateURL(base, rel Identity) (Identity, error) {
	u, err := url.Parse(base.value)
	if err != nil {
		return Identity{}, &referrors.PathJoinError{Base: base.value, Ref: rel.value, Cause: err}
	}
	if u.Opaque != "" {
		return Identity{}, &referrors.RebaseError{Base: base.value, Ref: rel.value}
	}
	ref, err := url.Parse(rel.value)
	if err != nil {
		return Identity{}, &referrors.PathJoinError{Base: base.value, Ref: rel.value, Cause: err}
	}
	return Remote(u.ResolveReference(ref)), nil
}

// normalizeLocal converts separators to '/' and collapses dot segments.
func normalizeLocal(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	return path.Clean(p)
}

// isAbsLocal reports whether a normalized local path is absolute, either
// rooted at '/' or at a drive letter.
func isAbsLocal(p string) bool {
	if strings.HasPrefix(p, "/") {
		return true
	}
	return len(p) >= 3 && isLetter(p[0]) && p[1] == ':' && p[2] == '/'
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
