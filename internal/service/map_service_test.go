package service

import (
	"context"
	"testing"
	"time"

	"cleanify-client/internal/mapsync"
	"cleanify-client/internal/model"
	"cleanify-client/internal/stream"
)

func snapshotHasAdd(batch []mapsync.Instruction, entity string) bool {
	for _, in := range batch {
		if in.Op == mapsync.OpAdd && in.Entity == entity {
			return true
		}
	}
	return false
}

// A client connecting while a reconcile lands must still see the new
// markers: registration happens before the replay snapshot is taken, so
// nothing drawn in between can fall through the gap.
func TestSubscribeSeesMarkersDrawnWhileConnecting(t *testing.T) {
	hub := stream.NewHub()
	svc := NewMapService(hub)
	defer svc.CloseAll()

	release := make(chan []model.Located)
	fetch := func(ctx context.Context, ref *model.Point) ([]model.Located, error) {
		return <-release, nil
	}
	if err := svc.OpenView("reports", time.Hour, fetch); err != nil {
		t.Fatal(err)
	}

	// The hub's Run loop is held back, so the subscriber parks inside
	// registration while the first reconcile draws its markers.
	type subscribed struct {
		client   *stream.Client
		snapshot []mapsync.Instruction
		err      error
	}
	done := make(chan subscribed, 1)
	go func() {
		client, snapshot, err := svc.Subscribe("reports")
		done <- subscribed{client, snapshot, err}
	}()

	release <- []model.Located{model.Report{ID: "x", Category: "Garbage", Pos: model.Point{Lat: 18.52, Lng: 73.85}}}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if batch, err := svc.Snapshot("reports"); err == nil && snapshotHasAdd(batch, "x") {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("marker for x was never drawn")
		}
		time.Sleep(5 * time.Millisecond)
	}

	go hub.Run()

	select {
	case res := <-done:
		if res.err != nil {
			t.Fatalf("Subscribe: %v", res.err)
		}
		if !snapshotHasAdd(res.snapshot, "x") {
			t.Fatalf("replay snapshot %+v is missing the marker drawn during connect", res.snapshot)
		}
		svc.Unsubscribe(res.client)
	case <-time.After(2 * time.Second):
		t.Fatal("Subscribe did not complete")
	}
}

func TestSubscribeUnknownView(t *testing.T) {
	hub := stream.NewHub()
	go hub.Run()
	svc := NewMapService(hub)

	if _, _, err := svc.Subscribe("nope"); err != ErrViewNotFound {
		t.Fatalf("err = %v, want ErrViewNotFound", err)
	}
}
