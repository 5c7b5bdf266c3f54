package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/arkwaretechnologies/laundropos-print/internal/driver"
	"github.com/arkwaretechnologies/laundropos-print/internal/printsvc"
	"github.com/arkwaretechnologies/laundropos-print/internal/probe"
	"github.com/arkwaretechnologies/laundropos-print/internal/receipt"
)

// stubFacade scripts facade responses and records the orders it receives.
type stubFacade struct {
	result printsvc.Result
	status printsvc.Status
	jobs   []*printsvc.Job
	orders []*receipt.Order
}

func (f *stubFacade) Initialize(ctx context.Context) printsvc.Result { return f.result }

func (f *stubFacade) PrintOrder(ctx context.Context, o *receipt.Order) printsvc.Result {
	f.orders = append(f.orders, o)
	return f.result
}

func (f *stubFacade) TestPrint(ctx context.Context) printsvc.Result { return f.result }
func (f *stubFacade) Rescan(ctx context.Context) printsvc.Result    { return f.result }
func (f *stubFacade) Status() printsvc.Status                       { return f.status }
func (f *stubFacade) Probe() []probe.Capability                     { return nil }
func (f *stubFacade) Jobs() []*printsvc.Job                         { return f.jobs }

func (f *stubFacade) Job(id string) (*printsvc.Job, bool) {
	for _, job := range f.jobs {
		if job.ID == id {
			return job, true
		}
	}
	return nil, false
}

func (f *stubFacade) Subscribe() (<-chan printsvc.Event, func()) {
	ch := make(chan printsvc.Event)
	return ch, func() { close(ch) }
}

func newTestServer(f *stubFacade) *Server {
	return NewServer(f, zap.NewNop())
}

const orderJSON = `{
	"orderId": "abc123",
	"orderNumber": "ORD-0007",
	"orderDate": "2025-11-02T10:30:00Z",
	"customerName": "Jane Doe",
	"items": [{"name": "Wash & Fold", "quantity": 2, "price": 15.0}],
	"totalAmount": 30.0
}`

func TestPrintEndpoint(t *testing.T) {
	f := &stubFacade{result: printsvc.Result{Code: printsvc.CodeOk, Backend: driver.BackendEmbedded, JobID: "j1"}}
	srv := newTestServer(f)

	req := httptest.NewRequest(http.MethodPost, "/print", strings.NewReader(orderJSON))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(f.orders) != 1 {
		t.Fatalf("Facade should receive exactly one order, got %d", len(f.orders))
	}
	o := f.orders[0]
	if o.OrderNumber != "ORD-0007" || o.CustomerName != "Jane Doe" || len(o.Items) != 1 {
		t.Errorf("Order fields lost in binding: %+v", o)
	}

	var res printsvc.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.JobID != "j1" {
		t.Errorf("Response missing job ID: %+v", res)
	}
}

func TestPrintRejectsEmptyOrder(t *testing.T) {
	f := &stubFacade{}
	srv := newTestServer(f)

	req := httptest.NewRequest(http.MethodPost, "/print", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 400 {
		t.Errorf("Expected 400 for empty order, got %d", w.Code)
	}
	if len(f.orders) != 0 {
		t.Error("Invalid order must not reach the facade")
	}
}

func TestResultCodeMapsToHTTPStatus(t *testing.T) {
	cases := map[printsvc.Code]int{
		printsvc.CodeOk:        200,
		printsvc.CodeNotReady:  409,
		printsvc.CodeNoBackend: 503,
		printsvc.CodeHardware:  500,
	}

	for code, want := range cases {
		f := &stubFacade{result: printsvc.Result{Code: code}}
		srv := newTestServer(f)

		req := httptest.NewRequest(http.MethodPost, "/test-print", nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)

		if w.Code != want {
			t.Errorf("Code %s: expected HTTP %d, got %d", code, want, w.Code)
		}
	}
}

func TestJobLookup(t *testing.T) {
	f := &stubFacade{jobs: []*printsvc.Job{{ID: "j1", Kind: "order", Code: printsvc.CodeOk}}}
	srv := newTestServer(f)

	req := httptest.NewRequest(http.MethodGet, "/jobs/j1", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != 200 {
		t.Errorf("Expected 200 for known job, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/jobs/unknown", nil)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != 404 {
		t.Errorf("Expected 404 for unknown job, got %d", w.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	f := &stubFacade{status: printsvc.Status{Backend: driver.BackendVendor, Bound: true}}
	srv := newTestServer(f)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	var st printsvc.Status
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if !st.Bound || st.Backend != driver.BackendVendor {
		t.Errorf("Status body wrong: %+v", st)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&stubFacade{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Errorf("Expected 200 from health check, got %d", w.Code)
	}
}
