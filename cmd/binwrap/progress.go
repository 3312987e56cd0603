package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ZebulonRouseFrantzich/binwrap/internal/binary"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// newProgress returns a progress callback that draws a download bar on w,
// or nil when w is not a terminal or quiet is set.
func newProgress(w io.Writer, quiet bool) binary.ProgressFunc {
	f, ok := w.(*os.File)
	if quiet || !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}

	var bar *progressbar.ProgressBar
	var last int64
	return func(received, total int64) {
		if total <= 0 {
			return
		}
		if bar == nil {
			bar = progressbar.NewOptions64(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionSetDescription("downloading"),
				progressbar.OptionShowBytes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionThrottle(100*time.Millisecond),
				progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
			)
		}
		_ = bar.Add64(received - last)
		last = received
		if received >= total {
			_ = bar.Finish()
		}
	}
}
