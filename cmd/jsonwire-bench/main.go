// Command jsonwire-bench measures writer throughput: it emits a synthetic
// document of UUID fields across nested objects and reports bytes, digest
// and rate, plus the writer's scratch-pool counters.
package main

import (
	"fmt"
	"os"
	"time"
	"unicode/utf16"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/grafana/jsonwire/pkg/jsonwire"
)

func main() {
	var (
		count          = kingpin.Flag("count", "Number of UUID fields to write.").Default("1000000").Int()
		groupSize      = kingpin.Flag("group-size", "Fields per nested object.").Default("100").Int()
		indented       = kingpin.Flag("indented", "Write indented output.").Bool()
		html           = kingpin.Flag("html", "Use the HTML escape policy.").Bool()
		useUTF16       = kingpin.Flag("utf16", "Feed property names as UTF-16 code units.").Bool()
		skipValidation = kingpin.Flag("skip-validation", "Disable structural validation.").Bool()
	)
	kingpin.Parse()

	logger := level.NewFilter(log.NewLogfmtLogger(os.Stderr), level.AllowInfo())

	reg := prometheus.NewRegistry()
	metrics := jsonwire.NewMetrics(reg)

	enc := jsonwire.DefaultEncoder
	if *html {
		enc = jsonwire.HTMLEncoder
	}
	w, err := jsonwire.NewWriter(jsonwire.WriterOptions{
		Indented:       *indented,
		Encoder:        enc,
		SkipValidation: *skipValidation,
		Pool:           jsonwire.NewBufferPool(metrics),
		Metrics:        metrics,
	})
	if err != nil {
		level.Error(logger).Log("msg", "creating writer", "err", err)
		os.Exit(1)
	}

	start := time.Now()
	if err := writeDocument(w, *count, *groupSize, *useUTF16); err != nil {
		level.Error(logger).Log("msg", "writing document", "err", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	out := w.Bytes()
	rate := float64(len(out)) / elapsed.Seconds()
	level.Info(logger).Log(
		"msg", "done",
		"fields", *count,
		"bytes", humanize.Bytes(uint64(len(out))),
		"digest", fmt.Sprintf("%016x", xxhash.Sum64(out)),
		"elapsed", elapsed,
		"rate", humanize.Bytes(uint64(rate))+"/s",
	)

	mfs, err := reg.Gather()
	if err != nil {
		level.Error(logger).Log("msg", "gathering metrics", "err", err)
		os.Exit(1)
	}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			level.Info(logger).Log("metric", mf.GetName(), "value", counterValue(m))
		}
	}
}

func writeDocument(w *jsonwire.Writer, count, groupSize int, useUTF16 bool) error {
	if err := w.WriteObjectStart(); err != nil {
		return err
	}
	for i := 0; i < count; {
		if err := w.WritePropertyName(fmt.Sprintf("group_%08d", i/groupSize)); err != nil {
			return err
		}
		if err := w.WriteObjectStart(); err != nil {
			return err
		}
		for j := 0; j < groupSize && i < count; j++ {
			name := fmt.Sprintf("id \"%d\"", i)
			v := uuid.New()
			var err error
			if useUTF16 {
				err = w.WriteUUIDFieldUTF16(utf16.Encode([]rune(name)), v)
			} else {
				err = w.WriteUUIDField(name, v)
			}
			if err != nil {
				return err
			}
			i++
		}
		if err := w.WriteObjectEnd(); err != nil {
			return err
		}
	}
	return w.WriteObjectEnd()
}

func counterValue(m *dto.Metric) float64 {
	if c := m.GetCounter(); c != nil {
		return c.GetValue()
	}
	return 0
}
