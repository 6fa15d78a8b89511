package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewWithRegistry(reg)

	c.PageViewsRecorded.Inc()
	c.PageViewsRecorded.Inc()
	if got := testutil.ToFloat64(c.PageViewsRecorded); got != 2 {
		t.Errorf("PageViewsRecorded = %v, want 2", got)
	}

	c.ProductViewsRecorded.WithLabelValues("pdf_page").Inc()
	if got := testutil.ToFloat64(c.ProductViewsRecorded.WithLabelValues("pdf_page")); got != 1 {
		t.Errorf("ProductViewsRecorded{pdf_page} = %v, want 1", got)
	}

	c.TrackingErrors.WithLabelValues("page_view").Inc()
	if got := testutil.ToFloat64(c.TrackingErrors.WithLabelValues("page_view")); got != 1 {
		t.Errorf("TrackingErrors{page_view} = %v, want 1", got)
	}
}

func TestNewWithRegistry_Isolated(t *testing.T) {
	// Two collectors on separate registries must not collide.
	a := NewWithRegistry(prometheus.NewRegistry())
	b := NewWithRegistry(prometheus.NewRegistry())

	a.BotsFiltered.Inc()
	if got := testutil.ToFloat64(b.BotsFiltered); got != 0 {
		t.Errorf("registries should be isolated, got %v", got)
	}
}
