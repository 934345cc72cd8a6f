//go:build !linux

package gpio

import "errors"

// ErrUnsupported is returned off Linux, where there is no GPIO character
// device to request the panel line from.
var ErrUnsupported = errors.New("gpio: panel line requires linux")

// RealReader lets the daemon build on development hosts. The run command
// logs the error and carries on without a panel button.
type RealReader struct{}

func NewRealReader(chipName string, offset int) (*RealReader, error) { return nil, ErrUnsupported }

func (*RealReader) Read() (bool, error) { return false, ErrUnsupported }
func (*RealReader) Close() error        { return nil }
