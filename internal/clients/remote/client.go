/*
SPDX-FileCopyrightText: Red Hat

SPDX-License-Identifier: Apache-2.0
*/

// Package remote is a thin typed wrapper over HTTP verbs against a
// Kubernetes style resource API. It classifies every possible response into
// the closed Outcome set and never returns transport or HTTP level errors to
// its callers; retry policy belongs to them.
package remote

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

const (
	contentType = "application/json"
	userAgent   = "o2ims-operator/go"
)

// ClientBuilder contains the data and logic needed to create remote clients.
// Don't create instances of this type directly, use the NewClient function
// instead.
type ClientBuilder struct {
	logger      *slog.Logger
	baseURL     string
	tokens      oauth2.TokenSource
	httpsVerify bool
	transport   http.RoundTripper
}

// Client performs HTTP calls against the remote resource store. Don't create
// instances of this type directly, use the NewClient function instead.
type Client struct {
	logger  *slog.Logger
	baseURL string
	tokens  oauth2.TokenSource
	client  *http.Client
}

// NewClient creates a builder that can then be used to configure and create a
// remote client.
func NewClient() *ClientBuilder {
	return &ClientBuilder{}
}

// SetLogger sets the logger that the client will use to write to the log.
// This is mandatory.
func (b *ClientBuilder) SetLogger(value *slog.Logger) *ClientBuilder {
	b.logger = value
	return b
}

// SetBaseURL sets the base URL of the remote resource store. This is
// mandatory.
func (b *ClientBuilder) SetBaseURL(value string) *ClientBuilder {
	b.baseURL = value
	return b
}

// SetTokenSource sets the source of the bearer token attached to every
// request. This is mandatory.
func (b *ClientBuilder) SetTokenSource(value oauth2.TokenSource) *ClientBuilder {
	b.tokens = value
	return b
}

// SetHTTPSVerify enables or disables verification of the server certificate.
func (b *ClientBuilder) SetHTTPSVerify(value bool) *ClientBuilder {
	b.httpsVerify = value
	return b
}

// SetTransport replaces the HTTP transport. This is intended for tests.
func (b *ClientBuilder) SetTransport(value http.RoundTripper) *ClientBuilder {
	b.transport = value
	return b
}

// Build uses the data stored in the builder to create and configure a new
// remote client.
func (b *ClientBuilder) Build() (result *Client, err error) {
	if b.logger == nil {
		err = fmt.Errorf("logger is mandatory")
		return
	}
	if b.baseURL == "" {
		err = fmt.Errorf("base URL is mandatory")
		return
	}
	if b.tokens == nil {
		err = fmt.Errorf("token source is mandatory")
		return
	}
	transport := b.transport
	if transport == nil {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: !b.httpsVerify, // nolint: gosec
			},
		}
	}
	result = &Client{
		logger:  b.logger,
		baseURL: strings.TrimSuffix(b.baseURL, "/"),
		tokens:  b.tokens,
		client: &http.Client{
			Transport: transport,
		},
	}
	return
}

// ResourcePath builds the API server path of a custom resource. The namespace
// and name segments are omitted when empty, which yields collection and
// cluster scoped paths respectively.
func ResourcePath(group, version, namespace, resource, name string) string {
	segments := []string{"apis", group, version}
	if namespace != "" {
		segments = append(segments, "namespaces", namespace)
	}
	segments = append(segments, resource)
	if name != "" {
		segments = append(segments, name)
	}
	return "/" + strings.Join(segments, "/")
}

// Get performs a GET of the given path and classifies the result.
func (c *Client) Get(ctx context.Context, path string) Outcome {
	return c.call(ctx, http.MethodGet, path, nil)
}

// Post performs a POST of the given body to the given path and classifies the
// result. The body is serialized as JSON.
func (c *Client) Post(ctx context.Context, path string, body any) Outcome {
	return c.call(ctx, http.MethodPost, path, body)
}

// Delete performs a DELETE of the given path and classifies the result.
func (c *Client) Delete(ctx context.Context, path string) Outcome {
	return c.call(ctx, http.MethodDelete, path, nil)
}

func (c *Client) call(ctx context.Context, method, path string, body any) Outcome {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return Outcome{
				Kind:   Unknown,
				Reason: fmt.Sprintf("failed to serialize request body: %v", err),
			}
		}
		reader = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return Outcome{
			Kind:   Unreachable,
			Reason: err.Error(),
		}
	}
	request.Header.Set("Content-Type", contentType)
	request.Header.Set("Accept", contentType)
	request.Header.Set("User-Agent", userAgent)
	token, err := c.tokens.Token()
	if err != nil {
		return Outcome{
			Kind:   Unreachable,
			Reason: fmt.Sprintf("failed to retrieve token: %v", err),
		}
	}
	request.Header.Set("Authorization", "Bearer "+token.AccessToken)

	response, err := c.client.Do(request)
	if err != nil {
		c.logger.DebugContext(
			ctx,
			"Remote call failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return Outcome{
			Kind:   Unreachable,
			Reason: err.Error(),
		}
	}
	defer response.Body.Close() // nolint: errcheck

	outcome := c.classify(response)
	c.logger.DebugContext(
		ctx,
		"Remote call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", response.StatusCode),
		slog.String("outcome", string(outcome.Kind)),
	)
	return outcome
}

// classify maps one HTTP response to its outcome. This is the single place in
// the system where status codes are interpreted.
func (c *Client) classify(response *http.Response) Outcome {
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return Outcome{
			Kind:   Unreachable,
			Status: response.StatusCode,
			Reason: err.Error(),
		}
	}

	switch response.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return Outcome{
			Kind:   OK,
			Status: response.StatusCode,
			Body:   body,
		}
	case http.StatusAccepted, http.StatusNoContent:
		return Outcome{
			Kind:   OK,
			Status: response.StatusCode,
		}
	case http.StatusUnauthorized, http.StatusForbidden:
		return Outcome{
			Kind:   Unauthorized,
			Status: response.StatusCode,
		}
	case http.StatusNotFound:
		return Outcome{
			Kind:   NotFound,
			Status: response.StatusCode,
		}
	case http.StatusBadRequest:
		return Outcome{
			Kind:   BadRequest,
			Status: response.StatusCode,
			Body:   body,
			Reason: statusMessage(body),
		}
	case http.StatusInternalServerError:
		return Outcome{
			Kind:   ServerUnavailable,
			Status: response.StatusCode,
		}
	default:
		return Outcome{
			Kind:   Unknown,
			Status: response.StatusCode,
			Body:   body,
		}
	}
}

// statusMessage extracts the message field of a Kubernetes Status body.
func statusMessage(body []byte) string {
	var status struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &status); err != nil || status.Message == "" {
		return string(body)
	}
	return status.Message
}
