//go:build !swagger

package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// Without the swagger tag MountSwagger registers nothing: API routes keep
// serving and /swagger/ stays a 404.
func TestMountSwaggerStubLeavesRoutesAlone(t *testing.T) {
	svc := &mockService{ready: true, styles: []string{"cartoon"}}
	h := NewMux(svc)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("/models status=%d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for /swagger/ in default build, got %d", w.Code)
	}
}
