package rabbitmq

import (
	"testing"
	"time"

	"quillpost/internal/model"
)

func TestEventCodec(t *testing.T) {
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	in := model.PostEvent{
		Event:      model.PostEventPublished,
		PostID:     "p1",
		ActorID:    "u1",
		ActorRole:  model.RoleOwner,
		OccurredAt: at,
	}

	body, err := EncodeEvent(in)
	if err != nil {
		t.Fatalf("EncodeEvent() error = %v", err)
	}
	out, err := DecodeEvent(body)
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}
	if out.Event != in.Event || out.PostID != in.PostID || !out.OccurredAt.Equal(at) {
		t.Fatalf("DecodeEvent() = %+v", out)
	}
}

func TestDecodeEventRejects(t *testing.T) {
	for name, body := range map[string]string{
		"not json":     "{",
		"missing post": `{"event":"post.created"}`,
		"missing kind": `{"post_id":"p1"}`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeEvent([]byte(body)); err == nil {
				t.Fatal("DecodeEvent() = nil error")
			}
		})
	}
}
