package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"
)

func TestClassifySchedulerJobReason(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "deadline", err: context.DeadlineExceeded, want: SchedulerJobReasonDeadlineExceeded},
		{name: "canceled", err: context.Canceled, want: SchedulerJobReasonDeadlineExceeded},
		{name: "unique_violation", err: gorm.ErrDuplicatedKey, want: SchedulerJobReasonUniqueViolation},
		{name: "unknown", err: errors.New("boom"), want: SchedulerJobReasonUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifySchedulerJobReason(tc.err); got != tc.want {
				t.Fatalf("expected reason %q, got %q", tc.want, got)
			}
		})
	}
}

func TestAddInvoicesGenerated(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newSchedulerMetrics(registry, Config{
		ServiceName: "nyumba",
		Environment: "test",
	})

	m.AddInvoicesGenerated(4)
	m.AddInvoicesGenerated(0)

	got := testutil.ToFloat64(m.invoicesGenerated)
	if got != 4 {
		t.Fatalf("expected generated count 4, got %v", got)
	}
}

func TestIncJobError(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newSchedulerMetrics(registry, Config{
		ServiceName: "nyumba",
		Environment: "test",
	})

	m.IncJobError("generate", context.DeadlineExceeded)
	m.IncJobError("generate", nil)

	got := testutil.ToFloat64(m.jobErrors.WithLabelValues("generate", SchedulerJobReasonDeadlineExceeded))
	if got != 1 {
		t.Fatalf("expected error count 1, got %v", got)
	}
}
