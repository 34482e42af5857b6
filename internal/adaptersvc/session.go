package adaptersvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/gousb"
	"go.uber.org/zap"

	"github.com/gcbridge/gcbridge/gcpad"
)

// Identity and framing of the Nintendo GameCube controller adapter.
const (
	adapterVendorID  = 0x057e
	adapterProductID = 0x0337

	inEndpointNum  = 1 // 0x81
	outEndpointNum = 2 // 0x02
)

// initPayload must be written once after claiming the interface; the adapter
// does not stream port reports until it arrives.
var initPayload = []byte{0x13}

// Connect-stage errors. Each stage fails distinctly so the caller can log a
// precise reason; none of them is retried here.
var (
	ErrAdapterNotFound = errors.New("no adapter found")
	ErrOpenFailed      = errors.New("failed to open adapter")
	ErrClaimFailed     = errors.New("failed to claim adapter interface")
	ErrInitFailed      = errors.New("adapter init handshake failed")
)

// Session owns the USB handle of one adapter. After Connect the handle is
// handed to the polling service; no other goroutine may issue transfers on it.
type Session struct {
	log *zap.Logger

	usb  *gousb.Context
	dev  *gousb.Device
	done func()
	in   *gousb.InEndpoint
	out  *gousb.OutEndpoint
}

// Connect enumerates attached USB devices, opens the first adapter, claims
// its vendor interface and performs the init handshake.
func Connect(log *zap.Logger) (*Session, error) {
	usb := gousb.NewContext()

	dev, err := usb.OpenDeviceWithVIDPID(adapterVendorID, adapterProductID)
	if err != nil {
		usb.Close()
		return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}
	if dev == nil {
		usb.Close()
		return nil, ErrAdapterNotFound
	}

	// On Linux the kernel HID driver binds the adapter first; detach it so the
	// interface claim below can succeed.
	if err := dev.SetAutoDetach(true); err != nil {
		log.Warn("could not enable kernel driver auto-detach", zap.Error(err))
	}

	intf, done, err := dev.DefaultInterface()
	if err != nil {
		dev.Close()
		usb.Close()
		return nil, fmt.Errorf("%w: %v", ErrClaimFailed, err)
	}

	s := &Session{
		log:  log,
		usb:  usb,
		dev:  dev,
		done: done,
	}

	s.in, err = intf.InEndpoint(inEndpointNum)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: %v", ErrClaimFailed, err)
	}
	s.out, err = intf.OutEndpoint(outEndpointNum)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: %v", ErrClaimFailed, err)
	}

	if _, err := s.out.Write(initPayload); err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: %v", ErrInitFailed, err)
	}

	log.Info("adapter connected",
		zap.String("id", s.ID()),
		zap.Int("bus", dev.Desc.Bus),
		zap.Int("address", dev.Desc.Address))
	return s, nil
}

// ID returns the adapter identity in vendor:product form.
func (s *Session) ID() string {
	return fmt.Sprintf("%04x:%04x", adapterVendorID, adapterProductID)
}

// Name returns the adapter's product string, if it reports one.
func (s *Session) Name() string {
	if name, err := s.dev.Product(); err == nil && name != "" {
		return name
	}
	return "GameCube Controller Adapter"
}

// Read issues one interrupt transfer and returns the raw report. The transfer
// is bounded by timeout so a stalled adapter cannot block a caller forever.
// Errors are returned without retry; retry policy belongs to the poll loop.
func (s *Session) Read(ctx context.Context, timeout time.Duration) (gcpad.RawReport, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var report gcpad.RawReport
	n, err := s.in.ReadContext(ctx, report[:])
	if err != nil {
		return gcpad.RawReport{}, err
	}
	if n != gcpad.ReportSize {
		return gcpad.RawReport{}, fmt.Errorf("short report: %d bytes", n)
	}
	return report, nil
}

// Close releases the interface and the USB handle.
func (s *Session) Close() error {
	s.done()
	err := s.dev.Close()
	if cerr := s.usb.Close(); err == nil {
		err = cerr
	}
	return err
}
