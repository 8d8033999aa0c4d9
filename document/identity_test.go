package document

import (
	"net/url"
	"testing"

	"github.com/erraggy/refinline/referrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  Kind
		value string
	}{
		{"empty is inline", "", KindInline, "<inline>"},
		{"whitespace is inline", "  \t", KindInline, "<inline>"},
		{"https url", "https://host/v1/api.yaml", KindRemote, "https://host/v1/api.yaml"},
		{"url fragment dropped", "https://host/api.yaml#/a/b", KindRemote, "https://host/api.yaml"},
		{"scheme lower-cased", "HTTP://host/api.json", KindRemote, "http://host/api.json"},
		{"file url", "file:///tmp/a.json", KindRemote, "file:///tmp/a.json"},
		{"relative path", "specs/api.yaml", KindLocal, "specs/api.yaml"},
		{"dot segments collapsed", "./specs/../api.yaml", KindLocal, "api.yaml"},
		{"leading parent kept", "../api.yaml", KindLocal, "../api.yaml"},
		{"absolute path", "/srv/specs/api.yaml", KindLocal, "/srv/specs/api.yaml"},
		{"windows separators", `specs\v1\api.yaml`, KindLocal, "specs/v1/api.yaml"},
		{"drive letter stays local", `C:\specs\api.yaml`, KindLocal, "C:/specs/api.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := Parse(tt.input)
			assert.Equal(t, tt.kind, id.Kind())
			assert.Equal(t, tt.value, id.String())
		})
	}
}

func TestIdentityEquality(t *testing.T) {
	assert.Equal(t, Parse("a/b/../c.json"), Parse("a/c.json"))
	assert.Equal(t, Parse(`a\c.json`), Parse("a/c.json"))
	assert.Equal(t, Inline(), Parse(""))
	assert.Equal(t, Inline(), Identity{})
	assert.NotEqual(t, Parse("a.json"), Parse("file:///a.json"))
	assert.Equal(t, Parse("https://host/v1/api.json"), Parse("https://Host/v1/./x/../api.json"))
	assert.Equal(t, Parse("https://host/v1/api.json"), Parse("HTTPS://HOST/v1/api.json#/defs"))
	assert.Equal(t, Parse("https://host/v1/"), Parse("https://host/v1/x/../"))
	assert.NotEqual(t, Parse("https://host/v1/"), Parse("https://host/v1"))
	assert.Equal(t, "https://host/api.json?v=2", Parse("https://host/a/../api.json?v=2").String())

	seen := map[Identity]int{}
	seen[Parse("./x/y.yaml")]++
	seen[Parse("x/./y.yaml")]++
	assert.Equal(t, 2, seen[Local("x/y.yaml")])
}

func TestRemoteConstructor(t *testing.T) {
	assert.True(t, Remote(nil).IsInline())
	assert.True(t, Remote(&url.URL{Path: "relative.json"}).IsInline())

	u, err := url.Parse("https://example.com/api.json#frag")
	require.NoError(t, err)
	id := Remote(u)
	assert.Equal(t, "https://example.com/api.json", id.String())
	assert.Equal(t, "#frag", "#"+u.Fragment, "caller's URL is not modified")

	u, err = url.Parse("https://Example.COM/v1/./x/../api.json")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/v1/api.json", Remote(u).String())
	assert.Equal(t, "/v1/./x/../api.json", u.Path, "caller's URL is not modified")
}

func TestRelateFrom(t *testing.T) {
	tests := []struct {
		name string
		base string
		rel  string
		want string
		kind Kind
	}{
		// Remote base
		{"remote from remote", "https://host/v1/api.yaml", "https://other/x.json", "https://other/x.json", KindRemote},
		{"local from remote", "https://host/v1/api.yaml", "other.json", "https://host/v1/other.json", KindRemote},
		{"parent from remote", "https://host/v1/api.yaml", "../common/x.json", "https://host/common/x.json", KindRemote},
		{"rooted from remote", "https://host/v1/api.yaml", "/x.json", "https://host/x.json", KindRemote},
		{"inline from remote", "https://host/v1/api.yaml", "", "https://host/v1/api.yaml", KindRemote},
		// Local base
		{"remote from local", "a/b/c.json", "https://host/x.json", "https://host/x.json", KindRemote},
		{"parent from local", "a/b/c.json", "../other.json", "a/other.json", KindLocal},
		{"sibling from local", "a/b/c.json", "d.json", "a/b/d.json", KindLocal},
		{"from bare file", "c.json", "d.json", "d.json", KindLocal},
		{"climb above base", "c.json", "../d.json", "../d.json", KindLocal},
		{"absolute from local", "a/b/c.json", "/etc/d.json", "/etc/d.json", KindLocal},
		{"inline from local", "a/b/c.json", "", "a/b/c.json", KindLocal},
		// Inline base
		{"remote from inline", "", "https://host/x.json", "https://host/x.json", KindRemote},
		{"local from inline", "", "../x.json", "../x.json", KindLocal},
		{"inline from inline", "", "", "<inline>", KindInline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.rel).RelateFrom(Parse(tt.base))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, got.Kind())
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestRelateFromErrors(t *testing.T) {
	t.Run("opaque base cannot be rebased", func(t *testing.T) {
		_, err := Parse("schema.json").RelateFrom(Parse("urn:example:api"))
		require.Error(t, err)
		assert.ErrorIs(t, err, referrors.ErrURLCannotBeRebased)
	})

	t.Run("invalid escape cannot be joined", func(t *testing.T) {
		_, err := Parse("bad%zzname.json").RelateFrom(Parse("https://host/api.json"))
		require.Error(t, err)
		assert.ErrorIs(t, err, referrors.ErrPathJoin)
	})
}

func TestAccessors(t *testing.T) {
	remote := Parse("https://host/v1/api.yaml?version=2")
	assert.Equal(t, "/v1/api.yaml", remote.Path())
	assert.Equal(t, FormatYAML, remote.Format())
	require.NotNil(t, remote.URL())
	assert.Equal(t, "host", remote.URL().Host)
	assert.Equal(t, "remote:https://host/v1/api.yaml?version=2", remote.Key())

	local := Parse("specs/types.toml")
	assert.Equal(t, "specs/types.toml", local.Path())
	assert.Equal(t, FormatTOML, local.Format())
	assert.Nil(t, local.URL())
	assert.Equal(t, "local:specs/types.toml", local.Key())

	inline := Inline()
	assert.Equal(t, "", inline.Path())
	assert.Equal(t, FormatUnknown, inline.Format())
	assert.Equal(t, "inline:", inline.Key())
	assert.Equal(t, "inline", inline.Kind().String())
}
