package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const reviewThreadsQuery = `
query($owner: String!, $name: String!, $number: Int!) {
  repository(owner: $owner, name: $name) {
    pullRequest(number: $number) {
      reviewThreads(first: 100) {
        nodes {
          isResolved
          comments(first: 100) {
            nodes {
              databaseId
            }
          }
        }
      }
    }
  }
}`

type graphqlRequest struct {
	Query     string `json:"query"`
	Variables any    `json:"variables"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse[T any] struct {
	Data   *T             `json:"data"`
	Errors []graphqlError `json:"errors"`
}

type reviewThreadsData struct {
	Repository struct {
		PullRequest struct {
			ReviewThreads struct {
				Nodes []struct {
					IsResolved bool `json:"isResolved"`
					Comments   struct {
						Nodes []struct {
							DatabaseID int64 `json:"databaseId"`
						} `json:"nodes"`
					} `json:"comments"`
				} `json:"nodes"`
			} `json:"reviewThreads"`
		} `json:"pullRequest"`
	} `json:"repository"`
}

func (c *Client) graphql(ctx context.Context, query string, variables any, out any) error {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", "wkfl")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("querying github graphql api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("github graphql api returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing github graphql response: %w", err)
	}
	return nil
}

// annotateResolved marks each review comment with its thread's
// resolution state.
func (c *Client) annotateResolved(ctx context.Context, owner, repo string, number int, comments []ReviewComment) error {
	if len(comments) == 0 {
		return nil
	}

	variables := map[string]any{"owner": owner, "name": repo, "number": number}
	var resp graphqlResponse[reviewThreadsData]
	if err := c.graphql(ctx, reviewThreadsQuery, variables, &resp); err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		return fmt.Errorf("github graphql api error: %s", resp.Errors[0].Message)
	}
	if resp.Data == nil {
		return fmt.Errorf("github graphql response had no data")
	}

	resolved := make(map[int64]bool)
	for _, thread := range resp.Data.Repository.PullRequest.ReviewThreads.Nodes {
		for _, comment := range thread.Comments.Nodes {
			resolved[comment.DatabaseID] = thread.IsResolved
		}
	}

	for i := range comments {
		if isResolved, ok := resolved[comments[i].ID]; ok {
			value := isResolved
			comments[i].IsResolved = &value
		}
	}
	return nil
}
