package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnswerEvent records a marked answer (one per question submission).
type AnswerEvent struct {
	ent.Schema
}

func (AnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty(),
		field.String("question_id").
			NotEmpty(),
		field.String("question_type").
			NotEmpty().
			Comment("multiple_choice, short_text, long_text, list, numerical, table, graph_drawing"),
		field.Int("marks").
			Comment("Marks available for the question"),
		field.Int("score").
			Comment("Marks awarded, clamped to [0, marks]"),
		field.Bool("auto_verified").
			Default(false).
			Comment("True when the marking regex matched and no AI call was made"),
	}
}

func (AnswerEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("question_id"),
	}
}
