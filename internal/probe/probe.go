// Package probe inspects the binding registry for printing-capable entry
// points. The scan is read-only and recomputed on every call; nothing here
// is cached or persisted.
package probe

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/arkwaretechnologies/laundropos-print/internal/binding"
)

// printKeywords classify a binding as print-related by name alone.
var printKeywords = []string{
	"print", "thermal", "receipt", "pos", "pda",
	"printer", "escpos", "barcode", "decode", "scanner",
}

// knownBindings are inspected directly even if the keyword scan misses them.
var knownBindings = []string{
	binding.NameEmbeddedService,
	binding.NameVendorPrinter,
	binding.NameGenericUSB,
}

// Capability is one discovered print-capable binding and the method names it
// exposes. Ephemeral; consumers must not retain it across scans.
type Capability struct {
	Binding string   `json:"binding"`
	Methods []string `json:"methods"`
}

// Scanner enumerates the registry for print capabilities.
type Scanner struct {
	reg *binding.Registry
	log *zap.Logger
}

// NewScanner creates a Scanner over the given registry.
func NewScanner(reg *binding.Registry, log *zap.Logger) *Scanner {
	return &Scanner{reg: reg, log: log}
}

// Scan enumerates every registered binding, keeps the ones whose names match
// the keyword set or the known high-value names, and records their method
// sets. A binding that fails inspection is skipped, never aborts the scan.
func (s *Scanner) Scan() []Capability {
	matched := make(map[string]bool)
	var caps []Capability

	for _, name := range s.reg.Names() {
		if !matchesKeyword(name) {
			continue
		}
		if cap, ok := s.inspect(name); ok {
			caps = append(caps, cap)
			matched[name] = true
		}
	}

	for _, name := range knownBindings {
		if matched[name] {
			continue
		}
		if _, ok := s.reg.Get(name); !ok {
			continue
		}
		if cap, ok := s.inspect(name); ok {
			caps = append(caps, cap)
		}
	}

	sort.Slice(caps, func(i, j int) bool { return caps[i].Binding < caps[j].Binding })

	s.log.Debug("capability scan complete", zap.Int("matches", len(caps)))
	return caps
}

// inspect enumerates a binding's methods. The binding wraps a native layer
// that may throw during enumeration; that is tolerated and logged.
func (s *Scanner) inspect(name string) (cap Capability, ok bool) {
	b, found := s.reg.Get(name)
	if !found {
		return Capability{}, false
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("binding failed inspection",
				zap.String("binding", name),
				zap.Any("panic", r),
			)
			cap = Capability{}
			ok = false
		}
	}()

	methods := b.Methods()
	sorted := make([]string, len(methods))
	copy(sorted, methods)
	sort.Strings(sorted)

	return Capability{Binding: name, Methods: sorted}, true
}

func matchesKeyword(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range printKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
