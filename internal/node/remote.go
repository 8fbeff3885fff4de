package node

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/harrison/filetrigger/internal/config"
)

// searchPath is the agent endpoint that runs a search on the remote host.
const searchPath = "/v1/search"

// RemoteContext dispatches searches to a filetrigger agent over HTTP.
// The traversal and pattern evaluation run entirely on the agent; only the
// outcome classification and the relative path list come back.
type RemoteContext struct {
	name    string
	baseURL string
	client  *http.Client
}

// NewRemoteContext creates a context bound to the agent at baseURL.
// If client is nil a default client with a 30 second timeout is used;
// per-request deadlines still come from the caller's context.
func NewRemoteContext(name, baseURL string, client *http.Client) *RemoteContext {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &RemoteContext{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Name returns the node name this context is bound to.
func (r *RemoteContext) Name() string {
	return r.name
}

// Search implements Context over the agent's HTTP API. A transport
// failure means the node is unreachable and is reported as ErrNodeOffline;
// the caller's context cancellation is passed through unchanged so outer
// cancellation stays observable.
func (r *RemoteContext) Search(ctx context.Context, req SearchRequest) (SearchReply, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return SearchReply{}, fmt.Errorf("failed to encode search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+searchPath, bytes.NewReader(body))
	if err != nil {
		return SearchReply{}, fmt.Errorf("failed to build search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return SearchReply{}, ctx.Err()
		}
		return SearchReply{}, fmt.Errorf("%w: %q: %v", ErrNodeOffline, r.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SearchReply{}, fmt.Errorf("node %q: %s", r.name, readAgentError(resp))
	}

	var reply SearchReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return SearchReply{}, fmt.Errorf("node %q: failed to decode search reply: %w", r.name, err)
	}
	return reply, nil
}

// readAgentError extracts the error message from a non-200 agent response.
func readAgentError(resp *http.Response) string {
	var payload struct {
		Error string `json:"error"`
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil && json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return resp.Status
}

// RegistryFromConfig builds the production registry from the configured
// node table. Every node entry becomes a RemoteContext sharing one HTTP
// client.
func RegistryFromConfig(nodes []config.Node, client *http.Client) *StaticRegistry {
	table := make(map[string]Context, len(nodes))
	for _, n := range nodes {
		table[n.Name] = NewRemoteContext(n.Name, n.URL, client)
	}
	return NewStaticRegistry(table)
}
