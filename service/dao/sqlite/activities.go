package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/viant/sanction/model/fault"
	"github.com/viant/sanction/model/tournament"
	"github.com/viant/sanction/model/training"
	"github.com/viant/sanction/service/dao"
)

// Tournaments stores tournaments.
type Tournaments struct {
	db *sql.DB
}

var _ dao.Service[string, tournament.Tournament] = (*Tournaments)(nil)

// NewTournaments returns a tournament store over db.
func NewTournaments(db *sql.DB) *Tournaments { return &Tournaments{db: db} }

func (s *Tournaments) Save(ctx context.Context, t *tournament.Tournament) error {
	if t == nil {
		return dao.ErrNilEntity
	}
	if t.ID == "" {
		return dao.ErrInvalidID
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO tournament (tournament_id, name, starts_at, created_by) VALUES (?, ?, ?, ?)
ON CONFLICT(tournament_id) DO UPDATE SET name = excluded.name, starts_at = excluded.starts_at`,
		t.ID, t.Name, toUnix(t.StartsAt), t.CreatedBy)
	return fault.Repository(err, "save tournament")
}

func (s *Tournaments) Load(ctx context.Context, id string) (*tournament.Tournament, error) {
	var (
		t        tournament.Tournament
		startsAt int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT tournament_id, name, starts_at, created_by FROM tournament WHERE tournament_id = ?`, id).
		Scan(&t.ID, &t.Name, &startsAt, &t.CreatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.NotFound("tournament", id)
	}
	if err != nil {
		return nil, fault.Repository(err, "load tournament")
	}
	t.StartsAt = fromUnix(startsAt)
	return &t, nil
}

// Delete removes a tournament, reporting not found when it does not exist.
func (s *Tournaments) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, s.db, `DELETE FROM tournament WHERE tournament_id = ?`, "tournament", id)
}

func (s *Tournaments) List(ctx context.Context, _ ...*dao.Parameter) ([]*tournament.Tournament, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tournament_id, name, starts_at, created_by FROM tournament ORDER BY starts_at, tournament_id`)
	if err != nil {
		return nil, fault.Repository(err, "list tournaments")
	}
	defer rows.Close()
	var ret []*tournament.Tournament
	for rows.Next() {
		var (
			t        tournament.Tournament
			startsAt int64
		)
		if err := rows.Scan(&t.ID, &t.Name, &startsAt, &t.CreatedBy); err != nil {
			return nil, fault.Repository(err, "scan tournament")
		}
		t.StartsAt = fromUnix(startsAt)
		ret = append(ret, &t)
	}
	return ret, fault.Repository(rows.Err(), "list tournaments")
}

// Trainings stores training sessions.
type Trainings struct {
	db *sql.DB
}

var _ dao.Service[string, training.Training] = (*Trainings)(nil)

// NewTrainings returns a training store over db.
func NewTrainings(db *sql.DB) *Trainings { return &Trainings{db: db} }

func (s *Trainings) Save(ctx context.Context, t *training.Training) error {
	if t == nil {
		return dao.ErrNilEntity
	}
	if t.ID == "" {
		return dao.ErrInvalidID
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO training (training_id, name, minutes, starts_at, created_by) VALUES (?, ?, ?, ?, ?)
ON CONFLICT(training_id) DO UPDATE SET name = excluded.name, minutes = excluded.minutes, starts_at = excluded.starts_at`,
		t.ID, t.Name, t.Minutes, toUnix(t.StartsAt), t.CreatedBy)
	return fault.Repository(err, "save training")
}

func (s *Trainings) Load(ctx context.Context, id string) (*training.Training, error) {
	var (
		t        training.Training
		startsAt int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT training_id, name, minutes, starts_at, created_by FROM training WHERE training_id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Minutes, &startsAt, &t.CreatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.NotFound("training", id)
	}
	if err != nil {
		return nil, fault.Repository(err, "load training")
	}
	t.StartsAt = fromUnix(startsAt)
	return &t, nil
}

// Delete removes a training, reporting not found when it does not exist.
func (s *Trainings) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, s.db, `DELETE FROM training WHERE training_id = ?`, "training", id)
}

func (s *Trainings) List(ctx context.Context, _ ...*dao.Parameter) ([]*training.Training, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT training_id, name, minutes, starts_at, created_by FROM training ORDER BY starts_at, training_id`)
	if err != nil {
		return nil, fault.Repository(err, "list trainings")
	}
	defer rows.Close()
	var ret []*training.Training
	for rows.Next() {
		var (
			t        training.Training
			startsAt int64
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Minutes, &startsAt, &t.CreatedBy); err != nil {
			return nil, fault.Repository(err, "scan training")
		}
		t.StartsAt = fromUnix(startsAt)
		ret = append(ret, &t)
	}
	return ret, fault.Repository(rows.Err(), "list trainings")
}

func deleteRow(ctx context.Context, db *sql.DB, query, entity, id string) error {
	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fault.Repository(err, "delete "+entity)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fault.Repository(err, "delete "+entity)
	}
	if affected == 0 {
		return fault.NotFound(entity, id)
	}
	return nil
}
