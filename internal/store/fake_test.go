package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFakeRoundTrip(t *testing.T) {
	f := NewFake()
	ctx := context.Background()

	profiles, err := f.Profiles(ctx)
	if err != nil {
		t.Fatalf("Profiles: %v", err)
	}
	if len(profiles) != 1 || profiles[0].Name != "Test Car" {
		t.Fatalf("seed profile missing: %+v", profiles)
	}

	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	id, err := f.SaveSession(ctx, testRecord("", base))
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if id == "" {
		t.Fatal("empty ID not assigned")
	}

	if _, err := f.SaveSession(ctx, testRecord("second", base.Add(time.Hour))); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	infos, err := f.Sessions(ctx, 0)
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(infos) != 2 || infos[0].ID != "second" {
		t.Fatalf("want newest first, got %+v", infos)
	}

	last, err := f.LastSession(ctx)
	if err != nil || last.ID != "second" {
		t.Fatalf("LastSession = %v, %v", last.ID, err)
	}

	if _, err := f.Session(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	if err := f.DeleteSessions(ctx); err != nil {
		t.Fatalf("DeleteSessions: %v", err)
	}
	if f.SessionCount() != 0 {
		t.Fatal("sessions survived delete")
	}
}

func TestFakeErrorInjection(t *testing.T) {
	f := NewFake()
	boom := errors.New("boom")

	f.SaveError = boom
	if _, err := f.SaveSession(context.Background(), emptyRecord()); !errors.Is(err, boom) {
		t.Fatalf("SaveError not surfaced: %v", err)
	}
	f.SaveError = nil

	f.LoadError = boom
	if _, err := f.LastSession(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("LoadError not surfaced: %v", err)
	}
}
