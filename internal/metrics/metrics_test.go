package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveUpload(t *testing.T) {
	m := New()
	m.ObserveUpload(ResultOK, 4, map[string]int{"co2": 2}, 10*time.Millisecond)
	m.ObserveUpload(ResultValidation, 0, map[string]int{"co2": 5}, time.Millisecond)

	if got := testutil.ToFloat64(m.Uploads.WithLabelValues(ResultOK)); got != 1 {
		t.Fatalf("ok uploads = %v", got)
	}
	if got := testutil.ToFloat64(m.Uploads.WithLabelValues(ResultValidation)); got != 1 {
		t.Fatalf("validation uploads = %v", got)
	}
	if got := testutil.ToFloat64(m.RowsIngested); got != 4 {
		t.Fatalf("rows = %v", got)
	}
	if got := testutil.ToFloat64(m.ValuesImputed.WithLabelValues("co2")); got != 2 {
		t.Fatalf("imputed = %v", got)
	}
	if n := testutil.CollectAndCount(m.PipelineDuration); n != 1 {
		t.Fatalf("histogram series = %d", n)
	}
}
