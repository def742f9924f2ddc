package sqlite

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/chillgc/tierlist/internal/apperror"
	"github.com/chillgc/tierlist/internal/model"
	"github.com/chillgc/tierlist/internal/repository"
)

// PersonDB implements repository.PersonRepository.
type PersonDB struct {
	conn *sql.DB
}

var _ repository.PersonRepository = (*PersonDB)(nil)

// Create inserts a new person and fills in the generated ID.
func (p *PersonDB) Create(ctx context.Context, person *model.Person) error {
	res, err := p.conn.ExecContext(ctx,
		`INSERT INTO people (name, discord_id, avatar_url, is_active, added_by)
		 VALUES (?, ?, ?, 1, ?)`,
		person.Name,
		person.DiscordID,
		person.AvatarURL,
		person.AddedBy,
	)
	if err != nil {
		return apperror.Persistence("inserting person", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return apperror.Persistence("reading person id", err)
	}
	person.ID = id
	person.Active = true

	return nil
}

func (p *PersonDB) GetByID(ctx context.Context, id int64) (*model.Person, error) {
	person, err := p.scanOne(p.conn.QueryRowContext(ctx,
		`SELECT id, name, discord_id, avatar_url, is_active, added_by, created_at
		 FROM people WHERE id = ?`,
		id,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("person", strconv.FormatInt(id, 10))
		}
		return nil, apperror.Persistence("getting person", err)
	}
	return person, nil
}

// ListActive returns active people ordered by name.
func (p *PersonDB) ListActive(ctx context.Context) ([]model.Person, error) {
	rows, err := p.conn.QueryContext(ctx,
		`SELECT id, name, discord_id, avatar_url, is_active, added_by, created_at
		 FROM people WHERE is_active = 1 ORDER BY name`,
	)
	if err != nil {
		return nil, apperror.Persistence("listing people", err)
	}
	defer rows.Close()

	people := []model.Person{}
	for rows.Next() {
		person, err := p.scanOne(rows)
		if err != nil {
			return nil, apperror.Persistence("scanning person", err)
		}
		people = append(people, *person)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Persistence("listing people", err)
	}

	return people, nil
}

// SoftDelete flips the active flag off. The row and any rankings that
// reference it stay in storage.
func (p *PersonDB) SoftDelete(ctx context.Context, id int64) error {
	res, err := p.conn.ExecContext(ctx,
		`UPDATE people SET is_active = 0 WHERE id = ?`, id,
	)
	if err != nil {
		return apperror.Persistence("deleting person", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return apperror.Persistence("deleting person", err)
	}
	if affected == 0 {
		return apperror.NotFound("person", strconv.FormatInt(id, 10))
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (p *PersonDB) scanOne(s scanner) (*model.Person, error) {
	var (
		person    model.Person
		discordID sql.NullString
		avatarURL sql.NullString
		isActive  int
		addedBy   sql.NullString
	)

	err := s.Scan(
		&person.ID,
		&person.Name,
		&discordID,
		&avatarURL,
		&isActive,
		&addedBy,
		&person.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if discordID.Valid {
		person.DiscordID = &discordID.String
	}
	if avatarURL.Valid {
		person.AvatarURL = &avatarURL.String
	}
	person.Active = isActive != 0
	if addedBy.Valid {
		person.AddedBy = &addedBy.String
	}

	return &person, nil
}
