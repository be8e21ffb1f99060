package service

import (
	"context"
	"errors"
	"godrive_backend/internal/model"
	"godrive_backend/internal/util"
	"reflect"
	"sync"
	"testing"
	"time"

	"gorm.io/datatypes"
)

func TestProgressSaveReplayIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "driver1")
	ctx := context.Background()

	in := ProgressInput{
		Completed:      boolPtr(false),
		Score:          2,
		TotalQuestions: 10,
		Answers:        model.AnswerMap{1: 2, 2: 3},
	}
	first, err := env.ledger.Save(ctx, user.ID, 1, in)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := env.ledger.Save(ctx, user.ID, 1, in)
	if err != nil {
		t.Fatalf("replayed save: %v", err)
	}

	records, err := env.ledger.List(ctx, user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if first.ID != second.ID {
		t.Errorf("replay created a new row: %d vs %d", first.ID, second.ID)
	}
	if !reflect.DeepEqual(second.Answers.Data(), in.Answers) || second.Score != 2 {
		t.Errorf("stored record = %+v", second)
	}
}

func TestProgressCompletionTimestamp(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "driver1")
	ctx := context.Background()
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	env.ledger.now = func() time.Time { return fixed }

	steps := []struct {
		completed     bool
		wantCompleted bool
	}{
		{false, false},
		{true, true},
		{false, false},
	}
	for i, step := range steps {
		rec, err := env.ledger.Save(ctx, user.ID, 5, ProgressInput{
			Completed:      boolPtr(step.completed),
			Score:          7,
			TotalQuestions: 10,
			Answers:        model.AnswerMap{41: 1},
		})
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if rec.Completed != step.wantCompleted {
			t.Errorf("step %d: completed = %v", i, rec.Completed)
		}
		if step.wantCompleted {
			if rec.CompletedAt == nil || !rec.CompletedAt.Equal(fixed) {
				t.Errorf("step %d: completedAt = %v, want %v", i, rec.CompletedAt, fixed)
			}
		} else if rec.CompletedAt != nil {
			t.Errorf("step %d: completedAt = %v, want nil", i, rec.CompletedAt)
		}
	}
}

func TestProgressSaveValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "driver1")
	ctx := context.Background()

	tests := []struct {
		name   string
		ticket int
		in     ProgressInput
	}{
		{"ticket zero", 0, ProgressInput{Completed: boolPtr(true), Answers: model.AnswerMap{}}},
		{"ticket past the last", 114, ProgressInput{Completed: boolPtr(true), Answers: model.AnswerMap{}}},
		{"completed missing", 1, ProgressInput{Answers: model.AnswerMap{}}},
		{"negative score", 1, ProgressInput{Completed: boolPtr(false), Score: -1, Answers: model.AnswerMap{}}},
		{"score above total", 1, ProgressInput{Completed: boolPtr(true), Score: 11, TotalQuestions: 10, Answers: model.AnswerMap{}}},
		{"total above ticket size", 1, ProgressInput{Completed: boolPtr(true), Score: 500, TotalQuestions: 500, Answers: model.AnswerMap{}}},
		{"answers missing", 1, ProgressInput{Completed: boolPtr(false)}},
		{"question outside ticket", 1, ProgressInput{Completed: boolPtr(false), Answers: model.AnswerMap{11: 1}}},
		{"option below one", 1, ProgressInput{Completed: boolPtr(false), Answers: model.AnswerMap{1: 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.ledger.Save(ctx, user.ID, tt.ticket, tt.in)
			if util.KindOf(err) != util.KindValidation {
				t.Errorf("kind = %q (%v), want validation", util.KindOf(err), err)
			}
		})
	}

	records, _ := env.ledger.List(ctx, user.ID)
	if len(records) != 0 {
		t.Errorf("rejected saves wrote %d records", len(records))
	}
}

func TestProgressSaveUnknownAccount(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.Save(context.Background(), 999, 1, ProgressInput{
		Completed: boolPtr(true),
		Answers:   model.AnswerMap{},
	})
	if !errors.Is(err, util.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestProgressConcurrentSavesKeepOneRow(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "driver1")
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			_, err := env.ledger.Save(ctx, user.ID, 3, ProgressInput{
				Completed:      boolPtr(true),
				Score:          score,
				TotalQuestions: 10,
				Answers:        model.AnswerMap{21: score + 1},
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent save: %v", err)
		}
	}

	records, err := env.ledger.List(ctx, user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	rec := records[0]
	// 最终记录必须完整来自某一次写入
	if rec.Answers.Data()[21] != rec.Score+1 {
		t.Errorf("record mixes writes: score %d answers %v", rec.Score, rec.Answers.Data())
	}
}

func TestProgressDeleteAndClear(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "driver1")
	ctx := context.Background()

	for _, ticket := range []int{1, 2, 3} {
		if _, err := env.ledger.Save(ctx, user.ID, ticket, ProgressInput{
			Completed: boolPtr(true),
			Answers:   model.AnswerMap{},
		}); err != nil {
			t.Fatalf("save ticket %d: %v", ticket, err)
		}
	}

	if err := env.ledger.DeleteTicket(ctx, user.ID, 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := env.ledger.DeleteTicket(ctx, user.ID, 2); !errors.Is(err, util.ErrProgressNotFound) {
		t.Errorf("second delete err = %v, want ErrProgressNotFound", err)
	}
	if _, err := env.ledger.GetTicket(ctx, user.ID, 2); !errors.Is(err, util.ErrProgressNotFound) {
		t.Errorf("get deleted ticket err = %v", err)
	}

	deleted, err := env.ledger.ClearAll(ctx, user.ID)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if deleted != 2 {
		t.Errorf("cleared %d rows, want 2", deleted)
	}
}

func TestProgressDerivedViews(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(24 * time.Hour)
	records := []model.TicketProgress{
		{TicketNumber: 1, Completed: true, Score: 8, TotalQuestions: 10, CompletedAt: &early,
			Answers: datatypes.NewJSONType(model.AnswerMap{1: 1})},
		{TicketNumber: 2, Completed: true, Score: 10, TotalQuestions: 10, CompletedAt: &late,
			Answers: datatypes.NewJSONType(model.AnswerMap{11: 1})},
		{TicketNumber: 3, Completed: false, Score: 3, TotalQuestions: 10,
			Answers: datatypes.NewJSONType(model.AnswerMap{21: 2})},
		{TicketNumber: 4, Completed: false, TotalQuestions: 10,
			Answers: datatypes.NewJSONType(model.AnswerMap{})},
	}

	completed := CompletedTickets(records)
	if len(completed) != 2 || completed[0].TicketNumber != 2 || completed[1].TicketNumber != 1 {
		t.Errorf("completed = %+v, want tickets 2 then 1", completed)
	}
	if len(completed) == 2 && (completed[0].Percentage != 100 || completed[1].Percentage != 80) {
		t.Errorf("percentages = %d, %d, want 100, 80", completed[0].Percentage, completed[1].Percentage)
	}

	if got := InProgressTickets(records); !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("in progress = %v, want [3]", got)
	}

	summary := Summarize(records)
	want := ProgressSummary{
		TicketsAttempted:    4,
		TicketsCompleted:    2,
		AveragePercentage:   90,
		TotalCorrectAnswers: 21,
	}
	if summary != want {
		t.Errorf("summary = %+v, want %+v", summary, want)
	}

	if empty := Summarize(nil); empty != (ProgressSummary{}) {
		t.Errorf("empty summary = %+v", empty)
	}
}
