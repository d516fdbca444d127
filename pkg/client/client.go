// Package client parle au node REST.
//
// Toute opération authentifiée reçoit sa Session en paramètre. Les mutations de
// relation sont limitées à une en vol par paire, les lectures identiques
// concurrentes sont fusionnées, et une réponse qui arrive après l'annulation du
// contexte appelant est jetée.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"

	"github.com/Nishchay412/Social-Distribution/pkg/api"
)

const maxBodyBytes = 4 << 20

type Client struct {
	baseURL *url.URL
	http    *http.Client
	guard   *pairGuard
	reads   singleflight.Group
	now     func() time.Time
	log     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient remplace le client HTTP (son transport n'est pas instrumenté).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithClock sert aux tests d'expiration de session.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   15 * time.Second,
		},
		guard: newPairGuard(),
		now:   time.Now,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// request décrit un appel. auth: "required" vérifie la session avant tout I/O,
// "optional" envoie le token s'il y en a un.
type request struct {
	op       string
	method   string
	path     string
	query    url.Values
	body     any
	sess     *Session
	required bool
}

// do exécute req et décode la réponse 2xx dans out (si non nil). Retourne le status.
func (c *Client) do(ctx context.Context, req request, out any) (int, error) {
	if req.required {
		if err := req.sess.check(c.now()); err != nil {
			return 0, err
		}
	}

	u := *c.baseURL
	u.Path = u.Path + req.path
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		buf, err := json.Marshal(req.body)
		if err != nil {
			return 0, fmt.Errorf("%s: encode body: %w", req.op, err)
		}
		body = bytes.NewReader(buf)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", req.op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.sess != nil && req.sess.AccessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.sess.AccessToken)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, &TransportError{Op: req.op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, &TransportError{Op: req.op, Status: resp.StatusCode, Err: err}
	}

	// Réponse arrivée après annulation : on la jette.
	if ctxErr := ctx.Err(); ctxErr != nil {
		c.log.Debug("discarding late response", "op", req.op, "status", resp.StatusCode)
		return 0, ctxErr
	}

	if resp.StatusCode >= 400 {
		var apiErr api.ErrorResponse
		_ = json.Unmarshal(raw, &apiErr)
		return resp.StatusCode, decodeError(req.op, resp.StatusCode, apiErr)
	}

	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("%s: %w: %v", req.op, ErrInvalidPayload, err)
		}
	}
	return resp.StatusCode, nil
}

// read fusionne les lectures identiques concurrentes (même session, même URL).
// Les lectures successives refont toujours un aller-retour.
func read[T any](ctx context.Context, c *Client, req request) (T, error) {
	var zero T
	if req.required {
		if err := req.sess.check(c.now()); err != nil {
			return zero, err
		}
	}

	key := req.method + " " + req.path + "?" + req.query.Encode()
	if req.sess != nil {
		key = req.sess.AccessToken + " " + key
	}

	ch := c.reads.DoChan(key, func() (any, error) {
		// Détaché de l'appelant : un abandon ne doit pas faire échouer les autres.
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.readTimeout())
		defer cancel()
		var out T
		_, err := c.do(shared, req, &out)
		return out, err
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func (c *Client) readTimeout() time.Duration {
	if c.http.Timeout > 0 {
		return c.http.Timeout
	}
	return 30 * time.Second
}

func escape(segment string) string { return url.PathEscape(segment) }
