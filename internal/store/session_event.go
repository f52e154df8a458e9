package store

import (
	"context"
	"fmt"

	"github.com/devikam/paperprep/ent"
	"github.com/devikam/paperprep/ent/sessionevent"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.client.SessionEvent.Create().
		SetSequence(seqNum).
		SetSessionID(data.SessionID).
		SetAction(data.Action).
		SetPaperName(data.PaperName).
		SetQuestionCount(data.QuestionCount).
		SetAnswered(data.Answered).
		SetScoredMarks(data.ScoredMarks).
		SetPossibleMarks(data.PossibleMarks).
		SetDurationSecs(data.DurationSecs).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.client.AnswerEvent.Create().
		SetSequence(seqNum).
		SetSessionID(data.SessionID).
		SetQuestionID(data.QuestionID).
		SetQuestionType(data.QuestionType).
		SetMarks(data.Marks).
		SetScore(data.Score).
		SetAutoVerified(data.AutoVerified).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) SessionHistory(ctx context.Context, limit int) ([]SessionHistoryRow, error) {
	events, err := r.client.SessionEvent.Query().
		Where(sessionevent.Action("end")).
		Order(ent.Desc(sessionevent.FieldTimestamp)).
		Limit(limit).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query session history: %w", err)
	}

	rows := make([]SessionHistoryRow, 0, len(events))
	for _, e := range events {
		rows = append(rows, SessionHistoryRow{
			SessionID:     e.SessionID,
			StartedAt:     e.Timestamp,
			Action:        e.Action,
			PaperName:     e.PaperName,
			QuestionCount: e.QuestionCount,
			Answered:      e.Answered,
			ScoredMarks:   e.ScoredMarks,
			PossibleMarks: e.PossibleMarks,
			DurationSecs:  e.DurationSecs,
		})
	}
	return rows, nil
}
