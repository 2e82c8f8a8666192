package printer

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"
)

// Printer sends raw ESC/POS data to a thermal bill printer.
type Printer interface {
	// Print writes one complete job.
	Print(ctx context.Context, data []byte) error
	// IsConnected reports whether the device is currently reachable.
	IsConnected(ctx context.Context) bool
	// Type names the backend: usb, network, file or none.
	Type() string
}

// Config selects and addresses a printer backend
type Config struct {
	Type    string // usb, network, file or none
	USBPath string // device path, e.g. /dev/usb/lp0
	Address string // host:port for network printers, or a spool file path for type file
	Timeout time.Duration
}

// New creates the Printer described by cfg
func New(cfg Config) (Printer, error) {
	switch cfg.Type {
	case "usb":
		if cfg.USBPath == "" {
			return nil, fmt.Errorf("printer: USB path is required for USB printer type")
		}
		return &devicePrinter{path: cfg.USBPath, kind: "usb"}, nil
	case "file":
		if cfg.Address == "" {
			return nil, fmt.Errorf("printer: spool file path is required for file printer type")
		}
		return &devicePrinter{path: cfg.Address, kind: "file", create: true}, nil
	case "network":
		if cfg.Address == "" {
			return nil, fmt.Errorf("printer: address is required for network printer type")
		}
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		return &networkPrinter{address: cfg.Address, timeout: timeout}, nil
	case "none", "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, file or none)", cfg.Type)
	}
}

// devicePrinter writes each job to a device node or spool file
type devicePrinter struct {
	path   string
	kind   string
	create bool
}

func (p *devicePrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	flags := os.O_WRONLY
	if p.create {
		flags |= os.O_CREATE | os.O_APPEND
	}
	f, err := os.OpenFile(p.path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("printer: failed to open %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: failed to write to %s: %w", p.path, err)
	}
	return nil
}

func (p *devicePrinter) IsConnected(ctx context.Context) bool {
	if p.create {
		return true
	}
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *devicePrinter) Type() string {
	return p.kind
}

// networkPrinter dials a raw TCP port (usually 9100) per job
type networkPrinter struct {
	address string
	timeout time.Duration
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return fmt.Errorf("printer: failed to connect to %s: %w", p.address, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * p.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: failed to write to %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) IsConnected(ctx context.Context) bool {
	dialer := net.Dialer{Timeout: 2 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *networkPrinter) Type() string {
	return "network"
}

type nullPrinter struct{}

// NewNullPrinter creates a no-op printer for tills without hardware.
func NewNullPrinter() Printer {
	return nullPrinter{}
}

func (nullPrinter) Print(context.Context, []byte) error { return nil }
func (nullPrinter) IsConnected(context.Context) bool    { return false }
func (nullPrinter) Type() string                        { return "none" }

// MemoryPrinter keeps every job in memory.
type MemoryPrinter struct {
	mu   sync.Mutex
	jobs [][]byte
	Err  error // returned from Print when set
}

func (p *MemoryPrinter) Print(_ context.Context, data []byte) error {
	if p.Err != nil {
		return p.Err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, bytes.Clone(data))
	return nil
}

func (p *MemoryPrinter) IsConnected(context.Context) bool { return p.Err == nil }
func (p *MemoryPrinter) Type() string                     { return "memory" }

// Jobs returns a copy of the printed jobs in order
func (p *MemoryPrinter) Jobs() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.jobs))
	copy(out, p.jobs)
	return out
}
