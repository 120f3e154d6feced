package cron

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSchedulerListReflectsRegisteredJobs(t *testing.T) {
	s := New()
	s.Register(Job{Name: "sweep", Description: "sweep sessions", Interval: time.Hour, Fn: func(context.Context) error { return nil }})
	s.Register(Job{Name: "monitor", Interval: time.Minute, Fn: func(context.Context) error { return nil }})

	items := s.List()
	if len(items) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(items))
	}
	byName := map[string]ListItem{}
	for _, it := range items {
		byName[it.Name] = it
	}
	sweep, ok := byName["sweep"]
	if !ok {
		t.Fatal("sweep job missing from list")
	}
	if sweep.Status != StatusIdle || sweep.Description != "sweep sessions" {
		t.Errorf("unexpected list item: %+v", sweep)
	}
	if sweep.NextDate == nil || sweep.NextDate.Before(time.Now()) {
		t.Errorf("next run must be in the future, got %v", sweep.NextDate)
	}
}

func TestSchedulerUnknownJob(t *testing.T) {
	s := New()
	if err := s.Run(context.Background(), "nope"); err == nil {
		t.Error("expected error triggering an unknown job")
	}
	if _, err := s.GetTask("nope"); err == nil {
		t.Error("expected error polling an unknown job")
	}
}

func TestSchedulerRunUpdatesTaskState(t *testing.T) {
	s := New()
	ran := make(chan struct{})
	s.Register(Job{Name: "flaky", Interval: time.Hour, Fn: func(context.Context) error {
		close(ran)
		return errors.New("boom")
	}})

	if res, err := s.GetTask("flaky"); err != nil || res.Status != StatusIdle {
		t.Fatalf("fresh job must be idle, got %+v (%v)", res, err)
	}

	if err := s.Run(context.Background(), "flaky"); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		res, err := s.GetTask("flaky")
		if err != nil {
			t.Fatalf("get task: %v", err)
		}
		if res.Status == StatusReject {
			if res.Message != "boom" {
				t.Errorf("expected the job's failure message, got %q", res.Message)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("job never settled, last status %q", res.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
