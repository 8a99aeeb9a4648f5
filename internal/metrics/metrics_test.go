package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestInit_IdempotentAndExposed(t *testing.T) {
	Init()
	Init()

	ObserveStorage("file", "write", nil, 2*time.Millisecond)
	ObserveStorage("file", "write", errors.New("disk full"), time.Millisecond)
	AddSkipped("projection", 3)
	AddSkipped("projection", 0)
	IncMutation("EVENT_CREATED", nil)
	ObserveProjection(nil, time.Millisecond)
	ObserveExport("ics", nil, time.Millisecond)
	ObserveHTTP("/api/v1/schedules", "GET", "200", time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		`bsched_storage_operations_total{backend="file",operation="write",result="success"} 1`,
		`bsched_storage_operations_total{backend="file",operation="write",result="error"} 1`,
		`bsched_skipped_records_total{operation="projection"} 3`,
		`bsched_mutations_total{result="success",type="EVENT_CREATED"} 1`,
		`bsched_projection_total{result="success"} 1`,
		`bsched_export_total{format="ics",result="success"} 1`,
		`bsched_http_requests_total{method="GET",route="/api/v1/schedules",status="200"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
