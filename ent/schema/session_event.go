package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent records session lifecycle events (start/resume/end).
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID grouping events in a session"),
		field.String("action").
			NotEmpty().
			Comment("start, resume or end"),
		field.String("paper_name").
			Default("").
			Comment("File name of the uploaded paper (on start only)"),
		field.Int("question_count").
			Default(0).
			Comment("Number of extracted questions"),
		field.Int("answered").
			Default(0).
			Comment("Questions with feedback (on end only)"),
		field.Int("scored_marks").
			Default(0).
			Comment("Total marks awarded (on end only)"),
		field.Int("possible_marks").
			Default(0).
			Comment("Total marks available (on end only)"),
		field.Int("duration_secs").
			Default(0).
			Comment("Session duration in seconds (on end only)"),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("action"),
	}
}
