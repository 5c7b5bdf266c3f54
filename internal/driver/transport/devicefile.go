package transport

import (
	"fmt"
	"os"
)

// defaultDevicePaths are raw character devices a line printer may answer on
// when no higher-level transport claimed it.
var defaultDevicePaths = []string{
	"/dev/usb/lp0",
	"/dev/usb/lp1",
	"/dev/lp0",
	"/dev/ttyUSB0",
	"/dev/ttyACM0",
}

// writeDeviceFile writes raw bytes to the first device path that accepts
// them. Paths that do not exist are skipped silently.
func writeDeviceFile(paths []string, data []byte) (string, error) {
	var lastErr error
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			lastErr = err
			continue
		}
		_, err = f.Write(data)
		closeErr := f.Close()
		if err == nil && closeErr == nil {
			return path, nil
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = closeErr
		}
	}
	if lastErr != nil {
		return "", fmt.Errorf("device file write failed: %w", lastErr)
	}
	return "", fmt.Errorf("no writable printer device file")
}
