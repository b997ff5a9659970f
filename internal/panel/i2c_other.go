/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

//go:build !linux

package panel

import (
	"fmt"
	"runtime"
)

func openI2C(path string) (Device, error) {
	return nil, fmt.Errorf("i2c-dev is not available on %s", runtime.GOOS)
}
