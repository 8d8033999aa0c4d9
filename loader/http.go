package loader

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/erraggy/refinline/document"
)

// fetch retrieves a remote document and returns its body and Content-Type.
func (l *Standard) fetch(ctx context.Context, urlStr string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, "", fmt.Errorf("loader: failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.client.Do(req) //nolint:gosec // URL comes from the document graph being resolved
	if err != nil {
		return nil, "", fmt.Errorf("loader: failed to fetch URL: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("loader: HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	data, err := l.readLimited(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("loader: failed to read response body: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// formatFromContentType maps a media type to a format hint.
func formatFromContentType(contentType string) document.Format {
	contentType = strings.ToLower(contentType)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}

	switch strings.TrimSpace(contentType) {
	case "application/json", "application/schema+json", "application/openapi+json":
		return document.FormatJSON
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml", "application/openapi+yaml":
		return document.FormatYAML
	case "application/toml":
		return document.FormatTOML
	case "application/graphql":
		return document.FormatGraphQL
	case "application/xml", "text/xml":
		return document.FormatXML
	default:
		return document.FormatUnknown
	}
}
