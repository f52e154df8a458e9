package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/devikam/paperprep/ent"
	"github.com/devikam/paperprep/ent/snapshot"
	"github.com/devikam/paperprep/internal/exam"
)

// snapshotRepo implements SnapshotRepo using the ent client.
type snapshotRepo struct {
	client *ent.Client
}

func (r *snapshotRepo) Save(ctx context.Context, sessionID string, snap *exam.Snapshot) error {
	dataMap, err := snapshotToMap(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	// Last write wins: drop older rows, then insert.
	if _, err := r.client.Snapshot.Delete().Exec(ctx); err != nil {
		return fmt.Errorf("clear old snapshots: %w", err)
	}

	_, err = r.client.Snapshot.Create().
		SetSessionID(sessionID).
		SetTimestamp(snap.Timestamp).
		SetData(dataMap).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*exam.Snapshot, error) {
	row, err := r.client.Snapshot.Query().
		Order(ent.Desc(snapshot.FieldTimestamp)).
		First(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	return mapToSnapshot(row.Data)
}

func (r *snapshotRepo) Clear(ctx context.Context) error {
	if _, err := r.client.Snapshot.Delete().Exec(ctx); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}
	return nil
}

// snapshotToMap converts the snapshot to map[string]any for ent JSON storage.
func snapshotToMap(snap *exam.Snapshot) (map[string]any, error) {
	b, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// mapToSnapshot converts stored ent JSON back into a session snapshot.
func mapToSnapshot(m map[string]any) (*exam.Snapshot, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal ent data: %w", err)
	}
	var snap exam.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
