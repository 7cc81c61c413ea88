// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"io"

	"spectra/internal/audio"
	"spectra/internal/tui"
)

// ListDevices prints the host's audio devices, or with Interactive lets the
// user browse input devices and prints the flags for the chosen one.
func ListDevices(opts *Options, w io.Writer) error {
	if err := audio.Initialize(); err != nil {
		return err
	}
	defer audio.Terminate()

	if !opts.Interactive {
		return audio.ListDevices(w)
	}

	d, rate, ok, err := tui.PickDevice()
	if err != nil || !ok {
		return err
	}
	fmt.Fprintf(w, "Selected [%d] %s at %.0f Hz\n", d.ID, d.Name, rate)
	fmt.Fprintf(w, "Run with: --device %d --sample-rate %.0f\n", d.ID, rate)
	return nil
}
