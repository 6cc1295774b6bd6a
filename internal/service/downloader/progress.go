package downloader

import (
	"io"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// ProgressWriter feeds an mpb bar as asset bytes flow through it. Tee
// the download body into it; the writer itself discards the data.
type ProgressWriter struct {
	bar    *mpb.Bar
	writer io.Writer
}

// NewProgressWriter adds a bar to the container sized by the asset's
// content length. A negative total renders an indeterminate bar.
func NewProgressWriter(container *mpb.Progress, total int64, description string) *ProgressWriter {
	bar := container.AddBar(total,
		mpb.PrependDecorators(
			decor.Name(description, decor.WC{C: decor.DindentRight | decor.DextraSpace}),
		),
		mpb.AppendDecorators(
			decor.CountersKibiByte("% .2f / % .2f"),
			decor.Name(" "),
			decor.EwmaSpeed(decor.SizeB1024(0), "% .2f", 30),
			decor.Name(" ETA:"),
			decor.EwmaETA(decor.ET_STYLE_GO, 30),
		),
	)

	return &ProgressWriter{
		bar:    bar,
		writer: io.Discard,
	}
}

// Write implements io.Writer and updates the bar with accurate timing
// for speed calculation.
func (w *ProgressWriter) Write(data []byte) (int, error) {
	start := time.Now()

	n, err := w.writer.Write(data)

	w.bar.EwmaIncrBy(n, time.Since(start))

	return n, err
}

// Finish marks the bar as complete.
func (w *ProgressWriter) Finish() {
	w.bar.SetTotal(-1, true)
}
