package convert

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"ttc/common"
	"ttc/config"
	"ttc/convert/cues"
	"ttc/convert/srt"
	"ttc/convert/ttml"
	"ttc/convert/vtt"
	"ttc/isd"
	"ttc/model"
	"ttc/state"
)

// WriteTo generates output in the specified format and writes it to the destination.
func (c *Content) WriteTo(ctx context.Context, format common.OutputFmt, outputPath string, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer out.Close()

	switch format {
	case common.OutputFmtTtml:
		// TTML keeps the full document, no flattening involved
		err = ttml.Write(out, c.doc)
	case common.OutputFmtSrt, common.OutputFmtVtt:
		var segs []isd.Segment
		if segs, err = c.resolve(ctx); err != nil {
			return err
		}
		if env.Rpt != nil {
			for i, seg := range segs {
				env.Rpt.StoreData(fmt.Sprintf("%s_isd/%04d", c.id, i), []byte(seg.Doc.String()))
			}
		}
		opts := cueOptions(env.Cfg.Document.Cues)
		if format == common.OutputFmtSrt {
			err = srt.Write(out, segs, opts)
		} else {
			err = vtt.Write(out, segs, opts)
		}
	default:
		return nil
	}
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("unable to close output file: %w", err)
	}

	log.Debug("Generated output", zap.Stringer("format", format), zap.String("path", outputPath))
	return nil
}

func cueOptions(cfg config.CuesConfig) cues.Options {
	opts := cues.DefaultOptions()
	opts.TextFormatting = cfg.TextFormatting
	if cfg.OpenEndedHold > 0 {
		opts.OpenEndedHold = model.Millis(int64(cfg.OpenEndedHold * 1000))
	}
	return opts
}

// resolve computes the snapshot sequence for the document: one snapshot per
// significant time, valid until the next one. Snapshots are independent, so
// the work is spread over available CPUs and reassembled in order.
func (c *Content) resolve(ctx context.Context) ([]isd.Segment, error) {
	times := isd.SignificantTimes(c.doc)
	if len(times) == 0 {
		return nil, nil
	}
	segs := make([]isd.Segment, len(times))

	workers := runtime.NumCPU()
	if workers > len(times) {
		workers = len(times)
	}

	feed := make(chan int)
	go func() {
		defer close(feed)
		for i := range times {
			select {
			case feed <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range feed {
				segs[i] = isd.Segment{Begin: times[i], Doc: isd.FromModel(c.doc, times[i])}
				if i+1 < len(times) {
					end := times[i+1]
					segs[i].End = &end
				}
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return segs, nil
}
