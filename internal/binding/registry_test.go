package binding

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterAndGet(t *testing.T) {
	reg := NewRegistry()

	b := NewFuncBinding("TestPrinter")
	b.Handle("printText", func(ctx context.Context, args ...interface{}) (interface{}, error) {
		return nil, nil
	})

	if err := reg.Register(b); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, ok := reg.Get("TestPrinter")
	if !ok {
		t.Fatal("Expected binding to be found")
	}
	if got.Name() != "TestPrinter" {
		t.Errorf("Expected name 'TestPrinter', got '%s'", got.Name())
	}
}

func TestRegisterDuplicate(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(NewFuncBinding("Dup")); err != nil {
		t.Fatalf("First register failed: %v", err)
	}
	if err := reg.Register(NewFuncBinding("Dup")); err == nil {
		t.Error("Expected error registering duplicate name")
	}
}

func TestNamesSorted(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewFuncBinding("Zebra"))
	reg.Register(NewFuncBinding("Alpha"))
	reg.Register(NewFuncBinding("Mango"))

	names := reg.Names()
	if len(names) != 3 {
		t.Fatalf("Expected 3 names, got %d", len(names))
	}
	if names[0] != "Alpha" || names[1] != "Mango" || names[2] != "Zebra" {
		t.Errorf("Expected sorted names, got %v", names)
	}
}

func TestInvokeUnknownMethod(t *testing.T) {
	b := NewFuncBinding("P")
	_, err := b.Invoke(context.Background(), "doesNotExist")
	if !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("Expected ErrUnknownMethod, got %v", err)
	}
}

func TestMethodsRegistrationOrder(t *testing.T) {
	b := NewFuncBinding("P")
	noop := func(ctx context.Context, args ...interface{}) (interface{}, error) { return nil, nil }
	b.Handle("connect", noop).Handle("printText", noop).Handle("connect", noop)

	methods := b.Methods()
	if len(methods) != 2 {
		t.Fatalf("Expected 2 methods, got %d", len(methods))
	}
	if methods[0] != "connect" || methods[1] != "printText" {
		t.Errorf("Unexpected method order: %v", methods)
	}
}
