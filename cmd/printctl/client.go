package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/arkwaretechnologies/laundropos-print/internal/printsvc"
)

// Client talks to the print server's HTTP API.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for the given server URL.
func NewClient(base string) *Client {
	return &Client{
		base: strings.TrimSuffix(base, "/"),
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) get(path string, out interface{}) error {
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

// post decodes the result body regardless of status; failed operations come
// back as structured results, not bare errors.
func (c *Client) post(path string) (printsvc.Result, error) {
	resp, err := c.http.Post(c.base+path, "application/json", nil)
	if err != nil {
		return printsvc.Result{}, fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()

	var res printsvc.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return printsvc.Result{}, fmt.Errorf("bad response: %w", err)
	}
	return res, nil
}

func (c *Client) Status() (printsvc.Status, error) {
	var st printsvc.Status
	err := c.get("/status", &st)
	return st, err
}

func (c *Client) Jobs() ([]*printsvc.Job, error) {
	var body struct {
		Jobs []*printsvc.Job `json:"jobs"`
	}
	err := c.get("/jobs", &body)
	return body.Jobs, err
}

func (c *Client) Initialize() (printsvc.Result, error) { return c.post("/initialize") }
func (c *Client) TestPrint() (printsvc.Result, error)  { return c.post("/test-print") }
func (c *Client) Rescan() (printsvc.Result, error)     { return c.post("/rescan") }
