package contactsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/google/uuid"

	"github.com/oaiiae/huma-contacts-ui/contacts"
)

type Options struct {
	BackendURL string `doc:"contacts collection endpoint of the backend" default:"http://localhost:5001/contacts"`
}

// Client accesses the contacts collection of the backend.
type Client struct {
	base    string
	http    *http.Client
	metrics *metrics.Set

	createMu sync.Mutex
}

var buckets = metrics.ExponentialBuckets(1e-3, 5, 6) //nolint: gochecknoglobals,mnd // arbitrary

// NewClient returns a [Client] for options.BackendURL.
// The http client and metrics set are optional.
func NewClient(options *Options, hc *http.Client, set *metrics.Set) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		base:    strings.TrimRight(options.BackendURL, "/"),
		http:    hc,
		metrics: set,
	}
}

// List fetches the whole collection.
func (c *Client) List(ctx context.Context) ([]contacts.Contact, error) {
	resp, err := c.do(ctx, "list", http.MethodGet, c.base, nil)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	var cs []contacts.Contact
	if err := json.NewDecoder(resp.Body).Decode(&cs); err != nil {
		return nil, &FetchError{Err: err}
	}
	return cs, nil
}

// Create assigns the next id from the current collection to draft and writes it.
// It returns the contact as stored by the backend.
func (c *Client) Create(ctx context.Context, draft contacts.Draft) (*contacts.Contact, error) {
	c.createMu.Lock()
	defer c.createMu.Unlock()

	cs, err := c.List(ctx)
	if err != nil {
		return nil, &CreateError{Step: StepRead, Err: err}
	}

	body, err := json.Marshal(contacts.Contact{
		ID:       contacts.NextID(cs),
		Name:     draft.Name,
		Position: draft.Position,
	})
	if err != nil {
		return nil, &CreateError{Step: StepWrite, Err: err}
	}

	resp, err := c.do(ctx, "create", http.MethodPost, c.base, body)
	if err != nil {
		return nil, &CreateError{Step: StepWrite, Err: err}
	}
	defer resp.Body.Close()

	created := new(contacts.Contact)
	if err := json.NewDecoder(resp.Body).Decode(created); err != nil {
		return nil, &CreateError{Step: StepWrite, Err: err}
	}
	return created, nil
}

// Delete removes the contact identified by id.
func (c *Client) Delete(ctx context.Context, id contacts.ContactID) error {
	resp, err := c.do(ctx, "delete", http.MethodDelete, c.base+"/"+url.PathEscape(id.String()), nil)
	if err != nil {
		return &DeleteError{ID: id, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// do sends the request and returns the response when its status is successful.
// Otherwise the body is discarded and a [*StatusError] returned.
func (c *Client) do(ctx context.Context, op, method, target string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(op, "error", start)
		return nil, err
	}
	c.observe(op, strconv.Itoa(resp.StatusCode), start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}
	return resp, nil
}

func (c *Client) observe(op, status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	labels := `{op="` + op + `",status="` + status + `"}`
	c.metrics.GetOrCreateCounter(`contacts_backend_requests_total` + labels).Inc()
	c.metrics.GetOrCreatePrometheusHistogramExt(`contacts_backend_request_duration_seconds`+labels, buckets).UpdateDuration(start)
}
