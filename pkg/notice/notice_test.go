package notice_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfill/pkg/notice"
)

func TestQueueDrain(t *testing.T) {
	q := notice.NewQueue()
	notice.Success(q, "saved")
	notice.Error(q, "broken")
	notice.Info(nil, "ignored")

	if q.Len() != 2 {
		t.Fatalf("len: got %d", q.Len())
	}
	if diff := cmp.Diff(q.Peek(), q.Drain()); diff != "" {
		t.Fatalf("peek and drain differ (-peek +drain):\n%s", diff)
	}
	if q.Len() != 0 || len(q.Drain()) != 0 {
		t.Fatalf("queue should be empty after drain")
	}
}

func TestNotifierFunc(t *testing.T) {
	var got []notice.Notice
	n := notice.NotifierFunc(func(level notice.Level, message string) {
		got = append(got, notice.Notice{Level: level, Message: message})
	})
	notice.Info(n, "hello")
	notice.Info(notice.Discard, "dropped")

	want := []notice.Notice{{Level: notice.LevelInfo, Message: "hello"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("notices mismatch (-want +got):\n%s", diff)
	}
}
