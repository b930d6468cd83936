package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewIsolatedRegistries(t *testing.T) {
	a := New()
	b := New()

	a.FollowRequests.WithLabelValues("follow").Inc()
	if got := testutil.ToFloat64(a.FollowRequests.WithLabelValues("follow")); got != 1 {
		t.Errorf("a follow count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(b.FollowRequests.WithLabelValues("follow")); got != 0 {
		t.Errorf("b follow count = %v, want 0", got)
	}
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.PostsCreated.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "clitter_posts_created_total 1") {
		t.Errorf("metrics output missing posts counter:\n%s", body)
	}
}
