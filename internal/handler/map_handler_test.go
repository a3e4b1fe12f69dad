package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cleanify-client/internal/model"
	"cleanify-client/internal/service"
	"cleanify-client/internal/stream"

	"github.com/gin-gonic/gin"
)

func newMapRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	hub := stream.NewHub()
	go hub.Run()

	svc := service.NewMapService(hub)
	fetch := func(ctx context.Context, ref *model.Point) ([]model.Located, error) {
		return nil, nil
	}
	if err := svc.OpenView("reports", time.Hour, fetch); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(svc.CloseAll)

	h := NewMapHandler(svc)
	r := gin.New()
	r.PUT("/map/:view/reference", h.SetReference)
	return r
}

func TestSetReferenceRequiresBothFields(t *testing.T) {
	r := newMapRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"lat only", `{"lat": 18.52}`},
		{"lng only", `{"lng": 73.85}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/map/reports/reference", strings.NewReader(tc.body))
			r.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
		})
	}
}

// Zero is a valid coordinate, distinct from an absent field.
func TestSetReferenceAcceptsZeroCoordinates(t *testing.T) {
	r := newMapRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/map/reports/reference", strings.NewReader(`{"lat": 0, "lng": 0}`))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestSetReferenceUnknownView(t *testing.T) {
	r := newMapRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/map/nope/reference", strings.NewReader(`{"lat": 18.52, "lng": 73.85}`))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
