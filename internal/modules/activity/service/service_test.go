package service

import (
	"context"
	"testing"
	"time"

	"anoa.com/academicrecords/internal/modules/activity/dto"
	"anoa.com/academicrecords/internal/modules/activity/repository"
	"anoa.com/academicrecords/pkg/flatfile"
)

func newService(t *testing.T) *activityService {
	t.Helper()
	store, err := flatfile.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	svc := NewActivityService(repository.NewActivityRepository(store), nil).(*activityService)
	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc
}

func TestRecordAndListNewestFirst(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	svc.Record(ctx, "AD00001", "Created %s account %s", "Student", "TP30001")
	svc.Record(ctx, "TP30001", "Logged in")
	svc.Record(ctx, "AD00001", "Deleted class %s", "CLS003")

	res, err := svc.List(ctx, dto.ActivityFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 3 || len(res.Data) != 3 {
		t.Fatalf("expected 3 entries, got %d/%d", len(res.Data), res.Total)
	}
	if res.Data[0].Action != "Deleted class CLS003" {
		t.Fatalf("expected newest entry first, got %q", res.Data[0].Action)
	}
	if !res.Data[0].Timestamp.After(res.Data[2].Timestamp) {
		t.Fatal("timestamps are not in descending order")
	}

	mine, err := svc.List(ctx, dto.ActivityFilter{ActorID: "AD00001", Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if mine.Total != 2 || len(mine.Data) != 1 {
		t.Fatalf("unexpected filtered listing %+v", mine)
	}
}

func TestRecordSanitisesAction(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	svc.Record(ctx, "TP30001", "Left feedback %s", "line one\nline | two")

	res, err := svc.List(ctx, dto.ActivityFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Data) != 1 || res.Data[0].Action != "Left feedback line one line / two" {
		t.Fatalf("unexpected entries %+v", res.Data)
	}
}
