package organizer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nstrand/binder/internal/apperr"
	"github.com/nstrand/binder/internal/entity"
	"github.com/nstrand/binder/internal/testutil"
)

func testService(t *testing.T) *Service {
	t.Helper()
	return NewService(testutil.TestDB(t))
}

func TestCreateEntityRejectsUnknownKind(t *testing.T) {
	svc := testService(t)
	_, err := svc.CreateEntity(context.Background(), entity.NewEntity{Kind: "folder", Name: "x"})
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestCreateEntityRequiresName(t *testing.T) {
	svc := testService(t)
	_, err := svc.CreateEntity(context.Background(), entity.NewEntity{Kind: entity.KindList})
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestCreateEntityRejectsParentedContainer(t *testing.T) {
	svc := testService(t)
	parent := "some-id"
	for _, kind := range []string{entity.KindProject, entity.KindProcess} {
		_, err := svc.CreateEntity(context.Background(), entity.NewEntity{
			Kind: kind, Name: "x", ContainerID: &parent,
		})
		if !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Errorf("kind %s: err = %v, want ErrInvalidArgument", kind, err)
		}
	}
}

func TestCreateEntityRejectsOutOfRangeColor(t *testing.T) {
	svc := testService(t)
	for _, color := range []int64{-1, 1 << 32} {
		c := color
		_, err := svc.CreateEntity(context.Background(), entity.NewEntity{
			Kind: entity.KindList, Name: "x", Color: &c,
		})
		if !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Errorf("color %d: err = %v, want ErrInvalidArgument", color, err)
		}
	}
}

func TestNestedListAllowed(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	p, err := svc.CreateEntity(ctx, entity.NewEntity{Kind: entity.KindProject, Name: "P"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	l, err := svc.CreateEntity(ctx, entity.NewEntity{Kind: entity.KindList, Name: "L", ContainerID: &p.ID})
	if err != nil {
		t.Fatalf("create nested list: %v", err)
	}
	if l.ContainerID == nil || *l.ContainerID != p.ID {
		t.Errorf("container = %v, want %s", l.ContainerID, p.ID)
	}
}

func TestUpdateContentRequiresDocument(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	c, err := svc.CreateEntity(ctx, entity.NewEntity{Kind: entity.KindList, Name: "L"})
	if err != nil {
		t.Fatal(err)
	}

	for _, content := range []json.RawMessage{nil, json.RawMessage("null")} {
		if _, err := svc.UpdateContent(ctx, c.ID, content, nil); !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Errorf("content %q: err = %v, want ErrInvalidArgument", content, err)
		}
	}
	if _, err := svc.UpdateContent(ctx, c.ID, json.RawMessage(`{"ok":1}`), nil); err != nil {
		t.Errorf("valid content rejected: %v", err)
	}
}

func TestDeleteUnknownIsNoOp(t *testing.T) {
	svc := testService(t)
	if err := svc.DeleteEntity(context.Background(), "missing"); err != nil {
		t.Errorf("delete unknown id: %v", err)
	}
}
