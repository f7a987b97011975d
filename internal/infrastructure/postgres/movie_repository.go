package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/movie"
)

// movieRow はDBの行を表す構造体
type movieRow struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Genre       string    `db:"genre"`
	Duration    int       `db:"duration"`
	Rating      float64   `db:"rating"`
	ReleaseYear int       `db:"release_year"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *movieRow) toEntity() *movie.Movie {
	return &movie.Movie{
		ID:          r.ID,
		Title:       r.Title,
		Genre:       r.Genre,
		Duration:    r.Duration,
		Rating:      r.Rating,
		ReleaseYear: r.ReleaseYear,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// MovieRepository は映画リポジトリのPostgreSQL実装
type MovieRepository struct {
	db *sqlx.DB
}

// NewMovieRepository はMovieRepositoryを作成する
func NewMovieRepository(db *sqlx.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Create は新しい映画を作成する
func (r *MovieRepository) Create(ctx context.Context, m *movie.Movie) error {
	query := `
		INSERT INTO movies (title, genre, duration, rating, release_year, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		m.Title, m.Genre, m.Duration, m.Rating, m.ReleaseYear, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return movie.ErrMovieAlreadyExists
		}
		return fmt.Errorf("映画作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDから映画を取得する
func (r *MovieRepository) GetByID(ctx context.Context, id int64) (*movie.Movie, error) {
	query := `SELECT id, title, genre, duration, rating, release_year, created_at, updated_at FROM movies WHERE id = $1`

	var row movieRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, movie.ErrMovieNotFound
		}
		return nil, fmt.Errorf("映画取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// GetByTitle はタイトルから映画を取得する
func (r *MovieRepository) GetByTitle(ctx context.Context, title string) (*movie.Movie, error) {
	query := `SELECT id, title, genre, duration, rating, release_year, created_at, updated_at FROM movies WHERE title = $1`

	var row movieRow
	if err := r.db.GetContext(ctx, &row, query, title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, movie.ErrMovieNotFound
		}
		return nil, fmt.Errorf("映画取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// List は映画一覧を取得する
func (r *MovieRepository) List(ctx context.Context, limit, offset int) ([]*movie.Movie, error) {
	query := `
		SELECT id, title, genre, duration, rating, release_year, created_at, updated_at
		FROM movies
		ORDER BY title
		LIMIT $1 OFFSET $2
	`

	var rows []movieRow
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("映画一覧取得に失敗しました: %w", err)
	}

	movies := make([]*movie.Movie, len(rows))
	for i, row := range rows {
		movies[i] = row.toEntity()
	}
	return movies, nil
}

// Update は映画を更新する
func (r *MovieRepository) Update(ctx context.Context, m *movie.Movie) error {
	query := `
		UPDATE movies
		SET title = $1, genre = $2, duration = $3, rating = $4, release_year = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := r.db.ExecContext(ctx, query,
		m.Title, m.Genre, m.Duration, m.Rating, m.ReleaseYear, time.Now(), m.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return movie.ErrMovieAlreadyExists
		}
		return fmt.Errorf("映画更新に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return movie.ErrMovieNotFound
	}
	return nil
}

// Delete は映画を削除する
func (r *MovieRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("映画削除に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return movie.ErrMovieNotFound
	}
	return nil
}

var _ movie.Repository = (*MovieRepository)(nil)
