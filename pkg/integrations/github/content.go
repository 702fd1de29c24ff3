package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/sandijean90/SecurityAgent/pkg/integrations"
)

// FetchFile retrieves the raw bytes of a file at ref. The contents API
// returns base64; anything else (or empty content) is rejected so the
// caller can skip the file.
func (c *Client) FetchFile(ctx context.Context, ref RepoRef, filePath string) ([]byte, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, ref.Owner, ref.Name, filePath)
	if ref.Ref != "" && ref.Ref != DefaultRef {
		url += "?ref=" + ref.Ref
	}

	var cr contentResponse
	key := fmt.Sprintf("github:contents:%s@%s:%s", ref, ref.Ref, filePath)
	err := c.api.Cached(ctx, key, false, &cr, func() error {
		return c.api.Get(ctx, url, &cr)
	})
	if err != nil {
		return nil, err
	}

	if cr.Content == "" || cr.Encoding != "base64" {
		return nil, fmt.Errorf("%w: unexpected encoding %q for %s", integrations.ErrNetwork, cr.Encoding, filePath)
	}

	// The API wraps base64 content in newlines.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(cr.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("decode content %s: %w", filePath, err)
	}
	return raw, nil
}
