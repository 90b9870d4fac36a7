package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(friendRequests.WithLabelValues("sent"))
	FriendRequest("sent")
	assert.Equal(t, before+1, testutil.ToFloat64(friendRequests.WithLabelValues("sent")))

	beforeErr := testutil.ToFloat64(notificationsPublished.WithLabelValues("error"))
	NotificationPublished(false)
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(notificationsPublished.WithLabelValues("error")))

	beforeExp := testutil.ToFloat64(expensesCreated)
	ExpenseCreated()
	assert.Equal(t, beforeExp+1, testutil.ToFloat64(expensesCreated))
}

func TestHandler_ExposesHTTPMetrics(t *testing.T) {
	ObserveHTTP(http.MethodGet, "/api/trips/{tripID}", http.StatusOK, 20*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `travelhub_http_requests_total{method="GET",route="/api/trips/{tripID}",status="200"}`))
	assert.Contains(t, body, "travelhub_http_request_duration_seconds_bucket")
}
