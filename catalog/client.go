// Package catalog syncs the remote product catalog into an immutable
// in-memory snapshot and keeps it fresh on a fixed interval.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fernlabs/storechat/domain"
)

// Client is the Shopify Storefront API client.
type Client struct {
	baseURL    string
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewClient creates a new Storefront client. baseURL is the shop origin,
// e.g. "https://example.myshopify.com".
func NewClient(baseURL, token, apiVersion string, timeout time.Duration) *Client {
	base := strings.TrimSuffix(baseURL, "/")
	return &Client{
		baseURL:  base,
		endpoint: fmt.Sprintf("%s/api/%s/graphql.json", base, apiVersion),
		token:    token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

const productsQuery = `
query Products($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    edges {
      cursor
      node {
        title
        handle
        tags
        variants(first: 1) {
          price { amount currencyCode }
        }
      }
    }
    pageInfo { hasNextPage }
  }
}`

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data struct {
		Products struct {
			Edges []struct {
				Cursor string `json:"cursor"`
				Node   struct {
					Title    string   `json:"title"`
					Handle   string   `json:"handle"`
					Tags     []string `json:"tags,omitempty"`
					Variants []struct {
						Price struct {
							Amount       string `json:"amount"`
							CurrencyCode string `json:"currencyCode"`
						} `json:"price"`
					} `json:"variants"`
				} `json:"node"`
			} `json:"edges"`
			PageInfo struct {
				HasNextPage bool `json:"hasNextPage"`
			} `json:"pageInfo"`
		} `json:"products"`
	} `json:"data"`
	Errors []graphQLError `json:"errors,omitempty"`
}

// FetchPage requests one page of up to pageSize products. An empty cursor
// means "start from the beginning". It returns the normalized products, the
// cursor of the last edge, and whether more pages remain. FetchPage is a
// pure pagination step: it holds no iterator state beyond the cursor value.
func (c *Client) FetchPage(ctx context.Context, cursor string, pageSize int) ([]domain.Product, string, bool, error) {
	vars := map[string]interface{}{"first": pageSize}
	if cursor != "" {
		vars["after"] = cursor
	}

	body, err := json.Marshal(graphQLRequest{Query: productsQuery, Variables: vars})
	if err != nil {
		return nil, "", false, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, "", false, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Shopify-Storefront-Access-Token", c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", false, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", false, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, "", false, fmt.Errorf("storefront API error [%d]: %s", resp.StatusCode, string(respBody))
	}

	var result graphQLResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, "", false, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, "", false, fmt.Errorf("storefront API error: %s", result.Errors[0].Message)
	}

	edges := result.Data.Products.Edges
	products := make([]domain.Product, 0, len(edges))
	nextCursor := ""
	for _, edge := range edges {
		price := domain.Unknown
		if len(edge.Node.Variants) > 0 {
			v := edge.Node.Variants[0].Price
			if v.Amount != "" {
				price = v.Amount + " " + v.CurrencyCode
			}
		}
		products = append(products, domain.Product{
			Title:  edge.Node.Title,
			Handle: edge.Node.Handle,
			Tags:   edge.Node.Tags,
			Price:  price,
			URL:    c.baseURL + "/products/" + edge.Node.Handle,
		})
		nextCursor = edge.Cursor
	}

	return products, nextCursor, result.Data.Products.PageInfo.HasNextPage, nil
}
