package service

import (
	"context"
	"errors"
	"godrive_backend/internal/util"
	"reflect"
	"sync"
	"testing"
)

func TestFavoritesIdempotent(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "driver1")
	ctx := context.Background()

	list, err := env.favorites.List(ctx, user.ID)
	if err != nil || len(list) != 0 {
		t.Fatalf("fresh list = %v, %v", list, err)
	}

	for i := 0; i < 2; i++ {
		list, err = env.favorites.Add(ctx, user.ID, 42)
		if err != nil {
			t.Fatalf("add #%d: %v", i, err)
		}
	}
	if !reflect.DeepEqual(list, []int{42}) {
		t.Errorf("after double add = %v, want [42]", list)
	}

	if _, err := env.favorites.Add(ctx, user.ID, 7); err != nil {
		t.Fatalf("add 7: %v", err)
	}
	for i := 0; i < 2; i++ {
		list, err = env.favorites.Remove(ctx, user.ID, 42)
		if err != nil {
			t.Fatalf("remove #%d: %v", i, err)
		}
	}
	if !reflect.DeepEqual(list, []int{7}) {
		t.Errorf("after double remove = %v, want [7]", list)
	}

	if err := env.favorites.Clear(ctx, user.ID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	list, _ = env.favorites.List(ctx, user.ID)
	if len(list) != 0 {
		t.Errorf("after clear = %v", list)
	}
}

func TestFavoritesValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "driver1")
	ctx := context.Background()

	for _, id := range []int{0, -1, 1131} {
		if _, err := env.favorites.Add(ctx, user.ID, id); util.KindOf(err) != util.KindValidation {
			t.Errorf("Add(%d) kind = %q, want validation", id, util.KindOf(err))
		}
	}
	if _, err := env.favorites.Add(ctx, 999, 1); !errors.Is(err, util.ErrUserNotFound) {
		t.Errorf("unknown account err = %v", err)
	}
}

func TestFavoritesConcurrentAdds(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "driver1")
	ctx := context.Background()

	var wg sync.WaitGroup
	for id := 1; id <= 10; id++ {
		wg.Add(1)
		go func(qid int) {
			defer wg.Done()
			if _, err := env.favorites.Add(ctx, user.ID, qid); err != nil {
				t.Errorf("add %d: %v", qid, err)
			}
		}(id)
	}
	wg.Wait()

	list, err := env.favorites.List(ctx, user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 10 {
		t.Errorf("favorites = %v, want 10 entries", list)
	}
}
