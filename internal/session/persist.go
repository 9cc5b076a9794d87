package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/aiquiz/internal/logging"
	"github.com/abhisek/aiquiz/internal/quiz"
)

// StorageKey is the fixed key of the persisted session record.
const StorageKey = "ai-quiz-store"

// KV is the subset of a key-value store the persister needs.
// store.KVRepo satisfies it.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// KVPersister stores the session as JSON under StorageKey.
type KVPersister struct {
	kv KV
}

func NewKVPersister(kv KV) *KVPersister {
	return &KVPersister{kv: kv}
}

// record mirrors Snapshot with the quiz left undecoded, so it can go
// through the same validator as model output.
type record struct {
	Topic        string          `json:"topic"`
	Quiz         json.RawMessage `json:"quiz"`
	CurrentIndex int             `json:"currentIndex"`
	Answers      map[string]int  `json:"answers"`
}

func (p *KVPersister) Load(ctx context.Context) (*Snapshot, error) {
	b, ok, err := p.kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if !ok {
		return nil, nil
	}
	s, err := decodeRecord(b)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (p *KVPersister) Save(ctx context.Context, s Snapshot) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return p.kv.Put(ctx, StorageKey, b)
}

func decodeRecord(b []byte) (*Snapshot, error) {
	var r record
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	s := &Snapshot{Topic: r.Topic, CurrentIndex: r.CurrentIndex, Answers: r.Answers}
	if s.Answers == nil {
		s.Answers = map[string]int{}
	}

	if len(r.Quiz) > 0 && string(r.Quiz) != "null" {
		var v any
		if err := json.Unmarshal(r.Quiz, &v); err != nil {
			return nil, fmt.Errorf("decode session quiz: %w", err)
		}
		p, err := quiz.ValidatePayload(v)
		if err != nil {
			return nil, fmt.Errorf("session quiz: %w", err)
		}
		s.Quiz = p
	}
	return s, nil
}

// checkSnapshot rejects a snapshot whose progress does not fit its quiz.
func checkSnapshot(s *Snapshot) error {
	if s.Quiz == nil {
		if s.CurrentIndex != 0 || len(s.Answers) > 0 {
			return errors.New("progress recorded without a quiz")
		}
		return nil
	}
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Quiz.Questions) {
		return fmt.Errorf("currentIndex %d out of range", s.CurrentIndex)
	}
	for id := range s.Answers {
		if s.Quiz.QuestionByID(id) == nil {
			return fmt.Errorf("answer for unknown question %q", id)
		}
	}
	return nil
}

// Restore builds a State from whatever p holds. A missing, unreadable or
// inconsistent record yields a fresh session; it is never an error.
func Restore(ctx context.Context, p Persister) *State {
	st := New(p)
	if p == nil {
		return st
	}

	s, err := p.Load(ctx)
	if err == nil && s != nil {
		err = checkSnapshot(s)
	}
	if err != nil {
		logging.WithContext(ctx).WithError(err).Warn("discarding stored quiz session")
		return st
	}
	if s == nil {
		return st
	}

	st.s = Snapshot{
		Topic:        s.Topic,
		Quiz:         s.Quiz,
		CurrentIndex: s.CurrentIndex,
		Answers:      s.Answers,
	}
	if st.s.Answers == nil {
		st.s.Answers = map[string]int{}
	}
	return st
}
