package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty string", input: "", want: nil},
		{name: "only separators", input: "_-./", want: nil},
		{name: "snake_case", input: "user_profile", want: []string{"user", "profile"}},
		{name: "kebab-case", input: "api-client", want: []string{"api", "client"}},
		{name: "dots and slashes", input: "/api/v1.users", want: []string{"api", "v1", "users"}},
		{name: "camelCase", input: "userProfile", want: []string{"user", "Profile"}},
		{name: "PascalCase", input: "UserProfile", want: []string{"User", "Profile"}},
		{name: "leading acronym", input: "APIClient", want: []string{"API", "Client"}},
		{name: "trailing acronym", input: "getHTTP", want: []string{"get", "HTTP"}},
		{name: "acronym then separator", input: "HTTPServer_config", want: []string{"HTTP", "Server", "config"}},
		{name: "digit boundary", input: "v2Users", want: []string{"v2", "Users"}},
		{name: "unicode", input: "café_ünïcode", want: []string{"café", "ünïcode"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitWords(tt.input))
		})
	}
}

func TestToPascalCase(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty string", input: "", want: ""},
		{name: "single lowercase letter", input: "a", want: "A"},
		{name: "snake_case simple", input: "user_profile", want: "UserProfile"},
		{name: "snake_case three words", input: "get_user_by_id", want: "GetUserById"},
		{name: "leading underscore", input: "_private", want: "Private"},
		{name: "double underscore", input: "double__under", want: "DoubleUnder"},
		{name: "kebab-case", input: "api-client", want: "ApiClient"},
		{name: "dot separator", input: "com.example.api", want: "ComExampleApi"},
		{name: "path-like", input: "/api/v1/users", want: "ApiV1Users"},
		{name: "already PascalCase", input: "UserProfile", want: "UserProfile"},
		{name: "camelCase", input: "userProfile", want: "UserProfile"},
		{name: "acronym kept", input: "APIClient", want: "APIClient"},
		{name: "mixed", input: "pet-store.v2", want: "PetStoreV2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToPascalCase(tt.input))
		})
	}
}

func TestToCamelCase(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty string", input: "", want: ""},
		{name: "snake_case", input: "user_profile", want: "userProfile"},
		{name: "PascalCase", input: "UserProfile", want: "userProfile"},
		{name: "leading acronym", input: "HTTPServer_config", want: "httpServerConfig"},
		{name: "single word", input: "User", want: "user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToCamelCase(tt.input))
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty string", input: "", want: ""},
		{name: "PascalCase", input: "UserProfile", want: "user_profile"},
		{name: "acronym", input: "APIClient", want: "api_client"},
		{name: "kebab-case", input: "api-client", want: "api_client"},
		{name: "already snake", input: "user_profile", want: "user_profile"},
		{name: "dots", input: "pet.store", want: "pet_store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToSnakeCase(tt.input))
		})
	}
}

func TestToKebabCase(t *testing.T) {
	assert.Equal(t, "user-profile", ToKebabCase("UserProfile"))
	assert.Equal(t, "http-server-config", ToKebabCase("HTTPServer_config"))
	assert.Equal(t, "", ToKebabCase(""))
}

func TestToTitleCase(t *testing.T) {
	assert.Equal(t, "Hello", ToTitleCase("hello"))
	assert.Equal(t, "HTTP", ToTitleCase("HTTP"))
	assert.Equal(t, "Érable", ToTitleCase("érable"))
	assert.Equal(t, "", ToTitleCase(""))
}
