/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

//go:build linux

package panel

import (
	"golang.org/x/sys/unix"
)

// I2C_SLAVE from linux/i2c-dev.h
const ioctlI2CSlave = 0x0703

type i2cDevice struct {
	fd int
}

func openI2C(path string) (Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	return &i2cDevice{fd: fd}, nil
}

func (d *i2cDevice) SetAddress(addr uint16) error {
	return unix.IoctlSetInt(d.fd, ioctlI2CSlave, int(addr))
}

func (d *i2cDevice) Write(p []byte) (int, error) {
	return unix.Write(d.fd, p)
}

func (d *i2cDevice) Read(p []byte) (int, error) {
	return unix.Read(d.fd, p)
}

func (d *i2cDevice) Close() error {
	return unix.Close(d.fd)
}
