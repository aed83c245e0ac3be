package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Client performs one outbound GET per invocation against a configured
// provider and returns the raw records from its response envelope.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

func NewClient(userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{},
		userAgent:  userAgent,
	}
}

func (c *Client) Fetch(ctx context.Context, src Config) ([]map[string]interface{}, error) {
	data, err := c.fetch(ctx, src)
	if err != nil {
		return nil, &FetchError{Source: src.Name, Err: err}
	}

	records, err := decodeEnvelope(src.ProviderKind(), data)
	if err != nil {
		return nil, &FetchError{Source: src.Name, Err: err}
	}

	return records, nil
}

func (c *Client) fetch(ctx context.Context, src Config) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, src.GetTimeout())
	defer cancel()

	reqURL, err := buildURL(src)
	if err != nil {
		return nil, fmt.Errorf("failed to build request URL: %w", err)
	}

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func buildURL(src Config) (string, error) {
	u, err := url.Parse(src.URL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	for key, value := range src.Params {
		q.Set(key, value)
	}
	if src.APIKey != "" {
		q.Set(src.APIKeyParam, src.APIKey)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// decodeEnvelope unwraps the provider-specific response envelope. An
// undecodable body is a fetch failure; a decodable body with no records
// is an empty (but successful) fetch.
func decodeEnvelope(kind ProviderKind, data []byte) ([]map[string]interface{}, error) {
	switch kind {
	case ProviderNewsAPI:
		var env struct {
			Articles []map[string]interface{} `json:"articles"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("malformed response envelope: %w", err)
		}
		return env.Articles, nil

	case ProviderGuardian:
		var env struct {
			Response struct {
				Results []map[string]interface{} `json:"results"`
			} `json:"response"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("malformed response envelope: %w", err)
		}
		return env.Response.Results, nil

	case ProviderNYTimes:
		var env struct {
			Response struct {
				Docs []map[string]interface{} `json:"docs"`
			} `json:"response"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("malformed response envelope: %w", err)
		}
		return env.Response.Docs, nil
	}

	return nil, fmt.Errorf("unknown source kind: %s", kind)
}
