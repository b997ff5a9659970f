/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package panel

import (
	"errors"
	"testing"

	"go.uber.org/zap"
)

// fakeDevice is a test double for an I2C adapter
type fakeDevice struct {
	frame      []byte
	addrErr    error
	writeN     int
	readErr    error
	written    []byte
	address    uint16
	closeCalls int
}

func (d *fakeDevice) SetAddress(addr uint16) error {
	d.address = addr
	return d.addrErr
}

func (d *fakeDevice) Write(p []byte) (int, error) {
	d.written = append(d.written, p...)
	return d.writeN, nil
}

func (d *fakeDevice) Read(p []byte) (int, error) {
	if d.readErr != nil {
		return 0, d.readErr
	}
	return copy(p, d.frame), nil
}

func (d *fakeDevice) Close() error {
	d.closeCalls++
	return nil
}

func newTestSampler(dev *fakeDevice, openErr error) *Sampler {
	open := func(path string) (Device, error) {
		if openErr != nil {
			return nil, openErr
		}
		return dev, nil
	}
	return newSampler("/dev/i2c-test", 0x08, open, zap.NewNop().Sugar())
}

func TestSample_DecodesFrame(t *testing.T) {
	dev := &fakeDevice{frame: []byte{0, 0, 200, 0, 1, 0}, writeN: 1}
	s := newTestSampler(dev, nil)

	smp, err := s.Sample()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !smp.PlayPressed || smp.StopPressed || smp.Analog != 200 {
		t.Errorf("unexpected sample %+v", smp)
	}
	if dev.address != 0x08 {
		t.Errorf("expected address 0x08, got 0x%02x", dev.address)
	}
	if len(dev.written) != 1 || dev.written[0] != 0 {
		t.Errorf("expected register selector 0 to be written, got %v", dev.written)
	}
	if dev.closeCalls != 1 {
		t.Errorf("expected device to be closed once, got %d", dev.closeCalls)
	}
}

func TestSample_ButtonsRequireExactlyOne(t *testing.T) {
	dev := &fakeDevice{frame: []byte{0, 0, 130, 0, 2, 1}, writeN: 1}
	s := newTestSampler(dev, nil)

	smp, err := s.Sample()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if smp.PlayPressed {
		t.Error("byte value 2 must not count as pressed")
	}
	if !smp.StopPressed {
		t.Error("expected stop pressed")
	}
}

func TestSample_DeviceUnavailable(t *testing.T) {
	s := newTestSampler(nil, errors.New("no such file"))

	_, err := s.Sample()
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("expected ErrDeviceUnavailable, got %v", err)
	}
}

func TestSample_BusAccessDeniedClosesDevice(t *testing.T) {
	dev := &fakeDevice{addrErr: errors.New("device busy"), writeN: 1}
	s := newTestSampler(dev, nil)

	_, err := s.Sample()
	if !errors.Is(err, ErrBusAccessDenied) {
		t.Fatalf("expected ErrBusAccessDenied, got %v", err)
	}
	if dev.closeCalls != 1 {
		t.Errorf("expected device to be closed on error path, got %d closes", dev.closeCalls)
	}
}

func TestSample_ShortWrite(t *testing.T) {
	dev := &fakeDevice{frame: make([]byte, 6), writeN: 0}
	s := newTestSampler(dev, nil)

	_, err := s.Sample()
	if !errors.Is(err, ErrShortRead) {
		t.Fatalf("expected ErrShortRead, got %v", err)
	}
	if dev.closeCalls != 1 {
		t.Errorf("expected device to be closed, got %d closes", dev.closeCalls)
	}
}

func TestSample_ShortRead(t *testing.T) {
	dev := &fakeDevice{frame: []byte{0, 0, 130}, writeN: 1}
	s := newTestSampler(dev, nil)

	_, err := s.Sample()
	if !errors.Is(err, ErrShortRead) {
		t.Fatalf("expected ErrShortRead, got %v", err)
	}
}

func TestSample_ReadError(t *testing.T) {
	dev := &fakeDevice{readErr: errors.New("remote I/O error"), writeN: 1}
	s := newTestSampler(dev, nil)

	_, err := s.Sample()
	if !errors.Is(err, ErrShortRead) {
		t.Fatalf("expected ErrShortRead, got %v", err)
	}
}

func TestProbe(t *testing.T) {
	dev := &fakeDevice{frame: []byte{0, 0, 130, 0, 0, 0}, writeN: 1}
	if err := newTestSampler(dev, nil).Probe(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := newTestSampler(nil, errors.New("missing")).Probe(); !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("expected ErrDeviceUnavailable, got %v", err)
	}
}
