package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/theater"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
)

// theaterRow はDBの行を表す構造体
type theaterRow struct {
	ID            int64     `db:"id"`
	Name          string    `db:"name"`
	NumberOfSeats int       `db:"number_of_seats"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r *theaterRow) toEntity() *theater.Theater {
	return &theater.Theater{
		ID:            r.ID,
		Name:          r.Name,
		NumberOfSeats: r.NumberOfSeats,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// TheaterRepository は劇場リポジトリのPostgreSQL実装
type TheaterRepository struct {
	db *sqlx.DB
}

// NewTheaterRepository はTheaterRepositoryを作成する
func NewTheaterRepository(db *sqlx.DB) *TheaterRepository {
	return &TheaterRepository{db: db}
}

// Create は新しい劇場を作成する（トランザクション必須）
func (r *TheaterRepository) Create(ctx context.Context, tx transaction.Tx, t *theater.Theater) error {
	query := `
		INSERT INTO theaters (name, number_of_seats, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := UnwrapTx(tx).QueryRowContext(ctx, query,
		t.Name, t.NumberOfSeats, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return theater.ErrTheaterAlreadyExists
		}
		return fmt.Errorf("劇場作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDから劇場を取得する
func (r *TheaterRepository) GetByID(ctx context.Context, id int64) (*theater.Theater, error) {
	query := `SELECT id, name, number_of_seats, created_at, updated_at FROM theaters WHERE id = $1`

	var row theaterRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, theater.ErrTheaterNotFound
		}
		return nil, fmt.Errorf("劇場取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// GetByName は名前から劇場を取得する
func (r *TheaterRepository) GetByName(ctx context.Context, name string) (*theater.Theater, error) {
	query := `SELECT id, name, number_of_seats, created_at, updated_at FROM theaters WHERE name = $1`

	var row theaterRow
	if err := r.db.GetContext(ctx, &row, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, theater.ErrTheaterNotFound
		}
		return nil, fmt.Errorf("劇場取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// List は劇場一覧を名前順で取得する
func (r *TheaterRepository) List(ctx context.Context) ([]*theater.Theater, error) {
	query := `SELECT id, name, number_of_seats, created_at, updated_at FROM theaters ORDER BY name`

	var rows []theaterRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("劇場一覧取得に失敗しました: %w", err)
	}

	theaters := make([]*theater.Theater, len(rows))
	for i, row := range rows {
		theaters[i] = row.toEntity()
	}
	return theaters, nil
}

// Count は劇場の総数を取得する
func (r *TheaterRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM theaters`); err != nil {
		return 0, fmt.Errorf("劇場数取得に失敗しました: %w", err)
	}
	return count, nil
}

var _ theater.Repository = (*TheaterRepository)(nil)
