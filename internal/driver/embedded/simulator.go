package embedded

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/arkwaretechnologies/laundropos-print/internal/binding"
	"github.com/arkwaretechnologies/laundropos-print/internal/receipt"
)

// Simulator is an in-memory print service used by demo mode and tests. It
// honors the buffer/commit model: buffered content is held until commit and
// dumped to the log as the "printed" output.
type Simulator struct {
	mu     sync.Mutex
	log    *zap.Logger
	status Status
	store  receipt.StoreInfo
	buffer []string

	connected   bool
	initialized bool
}

// NewSimulator creates a simulator reporting NORMAL status.
func NewSimulator(log *zap.Logger, store receipt.StoreInfo) *Simulator {
	return &Simulator{
		log:    log.With(zap.String("component", "printer-simulator")),
		status: StatusNormal,
		store:  store,
	}
}

// SetStatus changes the simulated readiness code.
func (s *Simulator) SetStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Binding exposes the simulator through the embedded service binding name,
// with the same method surface the production service has.
func (s *Simulator) Binding() binding.Binding {
	b := binding.NewFuncBinding(binding.NameEmbeddedService)
	b.Handle("isConnect", func(ctx context.Context, args ...interface{}) (interface{}, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.connected, nil
	})
	b.Handle("connectPrinterService", func(ctx context.Context, args ...interface{}) (interface{}, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.connected = true
		return true, nil
	})
	b.Handle("printerInit", func(ctx context.Context, args ...interface{}) (interface{}, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.initialized = true
		s.buffer = s.buffer[:0]
		return nil, nil
	})
	b.Handle("getPrinterStatus", func(ctx context.Context, args ...interface{}) (interface{}, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return int(s.status), nil
	})
	b.Handle("printText", func(ctx context.Context, args ...interface{}) (interface{}, error) {
		text, _ := args[0].(string)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.buffer = append(s.buffer, text)
		return nil, nil
	})
	b.Handle("setAlignment", func(ctx context.Context, args ...interface{}) (interface{}, error) {
		return nil, nil
	})
	b.Handle("printQRCode", func(ctx context.Context, args ...interface{}) (interface{}, error) {
		payload, _ := args[0].(string)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.buffer = append(s.buffer, "[QR "+payload+"]\n")
		return nil, nil
	})
	b.Handle("printBarCode", func(ctx context.Context, args ...interface{}) (interface{}, error) {
		data, _ := args[0].(string)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.buffer = append(s.buffer, "[BARCODE "+data+"]\n")
		return nil, nil
	})
	b.Handle("nextLine", func(ctx context.Context, args ...interface{}) (interface{}, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.buffer = append(s.buffer, "\n")
		return nil, nil
	})
	b.Handle("performPrint", func(ctx context.Context, args ...interface{}) (interface{}, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.log.Info("simulated print job committed",
			zap.String("output", strings.Join(s.buffer, "")),
		)
		s.buffer = s.buffer[:0]
		return nil, nil
	})
	b.Handle("getStoreInfo", func(ctx context.Context, args ...interface{}) (interface{}, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		info := s.store
		return &info, nil
	})
	return b
}
