package persistence

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"profile-hub/internal/domain/profile"
	"profile-hub/pkg/apperror"
	"profile-hub/pkg/logger"
)

type postgresProfileRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProfileRepo(db *pgxpool.Pool, logger logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: logger}
}

var psqlProfile = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// GetByUserID reads the user row and all three child collections inside one
// read-only transaction so the aggregate is a consistent snapshot.
func (r *postgresProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*profile.Aggregate, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, apperror.NewInternal("failed to begin read transaction", err)
	}
	defer tx.Rollback(ctx)

	query := `
		SELECT id, username, email, first_name, last_name, profile_picture_url, job_description, address
		FROM users
		WHERE id = $1
	`
	agg := &profile.Aggregate{}
	err = tx.QueryRow(ctx, query, userID).Scan(
		&agg.UserID,
		&agg.Username,
		&agg.Email,
		&agg.FirstName,
		&agg.LastName,
		&agg.ProfilePictureURL,
		&agg.JobDescription,
		&agg.Address,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("user", userID.String())
		}
		return nil, apperror.NewInternal("failed to query user", err)
	}

	if agg.Courses, err = loadCourses(ctx, tx, userID); err != nil {
		return nil, err
	}
	if agg.Projects, err = loadProjects(ctx, tx, userID); err != nil {
		return nil, err
	}
	if agg.Skills, err = loadSkills(ctx, tx, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.NewInternal("failed to commit read transaction", err)
	}
	return agg, nil
}

func loadCourses(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]profile.Course, error) {
	rows, err := tx.Query(ctx, `SELECT id, title, description, user_id FROM courses WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, apperror.NewInternal("failed to query courses", err)
	}
	defer rows.Close()

	courses := make([]profile.Course, 0)
	for rows.Next() {
		var c profile.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.UserID); err != nil {
			return nil, apperror.NewInternal("failed to scan course row", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating course rows", err)
	}
	return courses, nil
}

func loadProjects(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]profile.Project, error) {
	rows, err := tx.Query(ctx, `SELECT id, title, description, user_id FROM projects WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, apperror.NewInternal("failed to query projects", err)
	}
	defer rows.Close()

	projects := make([]profile.Project, 0)
	for rows.Next() {
		var p profile.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.UserID); err != nil {
			return nil, apperror.NewInternal("failed to scan project row", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating project rows", err)
	}
	return projects, nil
}

func loadSkills(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]profile.Skill, error) {
	rows, err := tx.Query(ctx, `SELECT id, name, level, user_id FROM skills WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, apperror.NewInternal("failed to query skills", err)
	}
	defer rows.Close()

	skills := make([]profile.Skill, 0)
	for rows.Next() {
		var s profile.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Level, &s.UserID); err != nil {
			return nil, apperror.NewInternal("failed to scan skill row", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating skill rows", err)
	}
	return skills, nil
}

// Save writes the whole aggregate in one transaction: the user row is
// updated, then each child table is synchronized with the in-memory
// collection. A failure anywhere rolls back everything.
func (r *postgresProfileRepo) Save(ctx context.Context, agg *profile.Aggregate) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE users SET
			username = $2, email = $3, first_name = $4, last_name = $5,
			profile_picture_url = $6, job_description = $7, address = $8
		WHERE id = $1
	`
	cmdTag, err := tx.Exec(ctx, query,
		agg.UserID, agg.Username, agg.Email, agg.FirstName, agg.LastName,
		agg.ProfilePictureURL, agg.JobDescription, agg.Address,
	)
	if err != nil {
		return classifyExecError("user", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("user", agg.UserID.String())
	}

	if err := r.syncCourses(ctx, tx, agg); err != nil {
		return err
	}
	if err := r.syncProjects(ctx, tx, agg); err != nil {
		return err
	}
	if err := r.syncSkills(ctx, tx, agg); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewInternal("failed to commit profile save", err)
	}
	return nil
}

func (r *postgresProfileRepo) syncCourses(ctx context.Context, tx pgx.Tx, agg *profile.Aggregate) error {
	keep := make([]int64, 0, len(agg.Courses))
	for _, c := range agg.Courses {
		if c.ID != 0 {
			keep = append(keep, c.ID)
		}
	}

	// Prune rows the aggregate no longer holds.
	if _, err := tx.Exec(ctx, `DELETE FROM courses WHERE user_id = $1 AND NOT (id = ANY($2))`, agg.UserID, keep); err != nil {
		return classifyExecError("course", err)
	}

	for _, c := range agg.Courses {
		if c.ID == 0 {
			continue
		}
		if _, err := tx.Exec(ctx, `UPDATE courses SET title = $1, description = $2 WHERE id = $3 AND user_id = $4`,
			c.Title, c.Description, c.ID, agg.UserID); err != nil {
			return classifyExecError("course", err)
		}
	}

	builder := psqlProfile.Insert("courses").Columns("title", "description", "user_id")
	fresh := 0
	for _, c := range agg.Courses {
		if c.ID == 0 {
			builder = builder.Values(c.Title, c.Description, agg.UserID)
			fresh++
		}
	}
	if fresh == 0 {
		return nil
	}

	sqlStr, args, err := builder.Suffix("RETURNING id").ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build course insert query", err)
	}
	rows, err := tx.Query(ctx, sqlStr, args...)
	if err != nil {
		return classifyExecError("course", err)
	}
	defer rows.Close()

	// RETURNING yields ids in insertion order; hand them back to the new rows.
	for i := range agg.Courses {
		if agg.Courses[i].ID != 0 {
			continue
		}
		if !rows.Next() {
			return apperror.NewInternal("course insert returned too few ids", rows.Err())
		}
		if err := rows.Scan(&agg.Courses[i].ID); err != nil {
			return apperror.NewInternal("failed to scan course id", err)
		}
		agg.Courses[i].UserID = agg.UserID
	}
	return rows.Err()
}

func (r *postgresProfileRepo) syncProjects(ctx context.Context, tx pgx.Tx, agg *profile.Aggregate) error {
	keep := make([]int64, 0, len(agg.Projects))
	for _, p := range agg.Projects {
		if p.ID != 0 {
			keep = append(keep, p.ID)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM projects WHERE user_id = $1 AND NOT (id = ANY($2))`, agg.UserID, keep); err != nil {
		return classifyExecError("project", err)
	}

	for _, p := range agg.Projects {
		if p.ID == 0 {
			continue
		}
		if _, err := tx.Exec(ctx, `UPDATE projects SET title = $1, description = $2 WHERE id = $3 AND user_id = $4`,
			p.Title, p.Description, p.ID, agg.UserID); err != nil {
			return classifyExecError("project", err)
		}
	}

	builder := psqlProfile.Insert("projects").Columns("title", "description", "user_id")
	fresh := 0
	for _, p := range agg.Projects {
		if p.ID == 0 {
			builder = builder.Values(p.Title, p.Description, agg.UserID)
			fresh++
		}
	}
	if fresh == 0 {
		return nil
	}

	sqlStr, args, err := builder.Suffix("RETURNING id").ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build project insert query", err)
	}
	rows, err := tx.Query(ctx, sqlStr, args...)
	if err != nil {
		return classifyExecError("project", err)
	}
	defer rows.Close()

	for i := range agg.Projects {
		if agg.Projects[i].ID != 0 {
			continue
		}
		if !rows.Next() {
			return apperror.NewInternal("project insert returned too few ids", rows.Err())
		}
		if err := rows.Scan(&agg.Projects[i].ID); err != nil {
			return apperror.NewInternal("failed to scan project id", err)
		}
		agg.Projects[i].UserID = agg.UserID
	}
	return rows.Err()
}

func (r *postgresProfileRepo) syncSkills(ctx context.Context, tx pgx.Tx, agg *profile.Aggregate) error {
	keep := make([]int64, 0, len(agg.Skills))
	for _, s := range agg.Skills {
		if s.ID != 0 {
			keep = append(keep, s.ID)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM skills WHERE user_id = $1 AND NOT (id = ANY($2))`, agg.UserID, keep); err != nil {
		return classifyExecError("skill", err)
	}

	for _, s := range agg.Skills {
		if s.ID == 0 {
			continue
		}
		if _, err := tx.Exec(ctx, `UPDATE skills SET name = $1, level = $2 WHERE id = $3 AND user_id = $4`,
			s.Name, s.Level, s.ID, agg.UserID); err != nil {
			return classifyExecError("skill", err)
		}
	}

	builder := psqlProfile.Insert("skills").Columns("name", "level", "user_id")
	fresh := 0
	for _, s := range agg.Skills {
		if s.ID == 0 {
			builder = builder.Values(s.Name, s.Level, agg.UserID)
			fresh++
		}
	}
	if fresh == 0 {
		return nil
	}

	sqlStr, args, err := builder.Suffix("RETURNING id").ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build skill insert query", err)
	}
	rows, err := tx.Query(ctx, sqlStr, args...)
	if err != nil {
		return classifyExecError("skill", err)
	}
	defer rows.Close()

	for i := range agg.Skills {
		if agg.Skills[i].ID != 0 {
			continue
		}
		if !rows.Next() {
			return apperror.NewInternal("skill insert returned too few ids", rows.Err())
		}
		if err := rows.Scan(&agg.Skills[i].ID); err != nil {
			return apperror.NewInternal("failed to scan skill id", err)
		}
		agg.Skills[i].UserID = agg.UserID
	}
	return rows.Err()
}

// classifyExecError keeps store rejections (constraint violations)
// recoverable and everything else terminal.
func classifyExecError(resource string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "23514":
			return apperror.NewInvalidInput(resource+" update rejected by store", err)
		case "23503":
			return apperror.NewNotFound(resource, pgErr.Detail)
		}
	}
	return apperror.NewInternal("failed to persist "+resource, err)
}
