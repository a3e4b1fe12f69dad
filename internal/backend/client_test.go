package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"cleanify-client/internal/model"
)

func point(lat, lng float64) model.Point {
	return model.Point{Lat: lat, Lng: lng}
}

func jsonDecode(r *http.Request, out interface{}) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func TestListReportsSwapsCoordinatesOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/reports" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("t") == "" {
			t.Error("list fetch missing cache buster")
		}
		// Wire order is [longitude, latitude].
		w.Write([]byte(`[{"_id":"r1","category":"Garbage","status":"Open","votes":3,
			"location":{"type":"Point","coordinates":[73.8567,18.5204]},"distance":120.5}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	reports, err := c.ListReports(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 1 {
		t.Fatalf("got %d reports", len(reports))
	}

	r := reports[0]
	if r.Pos.Lat != 18.5204 || r.Pos.Lng != 73.8567 {
		t.Fatalf("position = %+v, wire [lng,lat] was not swapped to (lat,lng)", r.Pos)
	}
	d, ok := r.Distance()
	if !ok || d != 120.5 {
		t.Fatalf("distance = %v ok=%v, want 120.5 in meters", d, ok)
	}
}

func TestMissingDistanceStaysAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"_id":"r1","category":"Garbage","status":"Open",
			"location":{"type":"Point","coordinates":[73.8,18.5]}}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	reports, err := c.ListReports(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := reports[0].Distance(); ok {
		t.Fatal("absent wire distance came through as present, not nil")
	}
}

func TestNearbyQueryParameters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("filter") != "nearby" || q.Get("lat") != "18.5204" || q.Get("lng") != "73.8567" || q.Get("radius") != "500" {
			t.Errorf("nearby query = %v", q)
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if _, err := c.ListReportsNearby(context.Background(), point(18.5204, 73.8567), 500); err != nil {
		t.Fatal(err)
	}
}

func TestCreateReportSendsFlatLatLng(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload createReportPayload
		if err := jsonDecode(r, &payload); err != nil {
			t.Fatal(err)
		}
		if payload.Lat != 18.5204 || payload.Lng != 73.8567 {
			t.Errorf("outbound payload = %+v, want flat lat/lng unswapped", payload)
		}
		w.Write([]byte(`{"_id":"r9","category":"Garbage","status":"Open",
			"location":{"type":"Point","coordinates":[73.8567,18.5204]}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	report, err := c.CreateReport(context.Background(), "Garbage", "overflowing bin", "18.52040, 73.85670", point(18.5204, 73.8567), nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.ID != "r9" {
		t.Fatalf("created id = %s", report.ID)
	}
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"badge":"Helper","badgeLevel":2,"reportsSubmitted":6}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	badge, err := c.GetBadge(context.Background(), "asha")
	if err != nil {
		t.Fatalf("GetBadge after one 502: %v", err)
	}
	if badge.ReportsSubmitted != 6 {
		t.Fatalf("badge = %+v", badge)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("made %d calls, want retry after the 502", calls)
	}
}

func TestVoteIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if _, err := c.Vote(context.Background(), "r1"); err == nil {
		t.Fatal("expected error")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("vote POST was sent %d times; a retried vote can act twice", calls)
	}
}
