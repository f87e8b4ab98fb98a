package events

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestDispatch_FiltersByType(t *testing.T) {
	d := NewEventDispatcher(zaptest.NewLogger(t))

	var progress, all []string
	d.Register(&FuncObserver{
		Name:  "progress",
		Types: []string{TypeCatalogProgress},
		Fn: func(e Event) error {
			progress = append(progress, e.Type)
			return nil
		},
	})
	d.Register(&FuncObserver{
		Name: "all",
		Fn: func(e Event) error {
			all = append(all, e.Type)
			return nil
		},
	})

	ctx := context.Background()
	d.Dispatch(NewTypedEvent(ctx, TypeCatalogProgress, CatalogProgressEvent{Percent: 50}))
	d.Dispatch(NewTypedEvent(ctx, TypeCatchResolved, CatchResolvedEvent{PokemonID: 1}))

	if len(progress) != 1 || progress[0] != TypeCatalogProgress {
		t.Errorf("progress observer got %v", progress)
	}
	if len(all) != 2 {
		t.Errorf("catch-all observer got %v", all)
	}
}

func TestDispatch_ContinuesAfterObserverError(t *testing.T) {
	d := NewEventDispatcher(zaptest.NewLogger(t))

	called := false
	d.Register(&FuncObserver{Name: "failing", Fn: func(Event) error { return errors.New("boom") }})
	d.Register(&FuncObserver{Name: "ok", Fn: func(Event) error {
		called = true
		return nil
	}})

	d.Dispatch(Event{Type: TypeCollectionUpdated})

	if !called {
		t.Error("expected second observer to be notified")
	}
}

func TestUnregisterAndClear(t *testing.T) {
	d := NewEventDispatcher(nil)
	a := &FuncObserver{Name: "a", Fn: func(Event) error { return nil }}
	b := NewLoggingObserver(zaptest.NewLogger(t), true)

	d.Register(a)
	d.Register(b)
	if d.ObserverCount() != 2 {
		t.Fatalf("expected 2 observers, got %d", d.ObserverCount())
	}

	d.Unregister(a)
	if d.ObserverCount() != 1 {
		t.Errorf("expected 1 observer after Unregister, got %d", d.ObserverCount())
	}

	d.Dispatch(Event{Type: TypeCatchResolved, Data: CatchResolvedEvent{Name: "pikachu"}})

	d.Clear()
	if d.ObserverCount() != 0 {
		t.Errorf("expected 0 observers after Clear, got %d", d.ObserverCount())
	}
}

func TestGetTypedData(t *testing.T) {
	event := NewTypedEvent(context.Background(), TypeCatalogProgress, CatalogProgressEvent{Percent: 42})

	data, ok := GetTypedData[CatalogProgressEvent](event)
	if !ok {
		t.Fatal("Expected GetTypedData to succeed")
	}
	if data.Percent != 42 {
		t.Errorf("Expected Percent 42, got %d", data.Percent)
	}

	if _, ok := GetTypedData[CatchResolvedEvent](event); ok {
		t.Error("Expected GetTypedData to fail for wrong type")
	}
}
