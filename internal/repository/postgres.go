// Package repository хранит пользователей, каталог и заказы магазина в PostgreSQL.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mmeshcher/goods-market/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const connectTimeout = 10 * time.Second

var (
	// ErrPersonExists возвращается при попытке создать пользователя с уже существующим логином.
	ErrPersonExists = errors.New("person already exists")
	// ErrPersonNotFound возвращается, если пользователь не найден.
	ErrPersonNotFound = errors.New("person not found")
	// ErrPersonInactive возвращается, если пользователь не выполнил вход.
	ErrPersonInactive = errors.New("person is not logged in")
	// ErrSessionRevoked возвращается для токена, выпущенного до последнего выхода пользователя.
	ErrSessionRevoked = errors.New("session was revoked by logout")
	// ErrGoodsExists возвращается при повторном добавлении товара с тем же идентификатором.
	ErrGoodsExists = errors.New("goods already exists")
	// ErrGoodsNotFound возвращается, если товар не найден.
	ErrGoodsNotFound = errors.New("goods not found")
)

// PostgresRepository работает поверх пула pgx; схема поднимается миграциями goose при старте.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository подключается к dsn, проверяет соединение и применяет миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close освобождает соединения пула.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// CreatePerson создаёт нового пользователя с неактивным флагом входа.
func (r *PostgresRepository) CreatePerson(ctx context.Context, login string, passwordHash []byte) (*model.Person, error) {
	p := model.Person{
		Login:        login,
		PasswordHash: passwordHash,
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO persons (login, password_hash) VALUES ($1, $2) RETURNING id, is_active, created_at`,
		login, passwordHash,
	).Scan(&p.ID, &p.IsActive, &p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrPersonExists, login)
		}
		return nil, fmt.Errorf("create person: %w", err)
	}

	return &p, nil
}

// GetPersonByLogin возвращает пользователя по логину.
func (r *PostgresRepository) GetPersonByLogin(ctx context.Context, login string) (*model.Person, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, login, password_hash, is_active, logged_out_at, created_at FROM persons WHERE login = $1`,
		login,
	)

	var (
		p           model.Person
		loggedOutAt *time.Time
	)
	err := row.Scan(&p.ID, &p.Login, &p.PasswordHash, &p.IsActive, &loggedOutAt, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPersonNotFound
		}
		return nil, fmt.Errorf("get person: %w", err)
	}
	if loggedOutAt != nil {
		p.LoggedOutAt = *loggedOutAt
	}

	return &p, nil
}

// SetPersonActive меняет флаг входа пользователя. Выход запоминает время,
// и токены, выпущенные раньше, больше не принимаются при оформлении заказа.
func (r *PostgresRepository) SetPersonActive(ctx context.Context, login string, active bool) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE persons
		 SET is_active = $2::boolean,
		     logged_out_at = CASE WHEN $2::boolean THEN logged_out_at ELSE now() END
		 WHERE login = $1`,
		login, active,
	)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrPersonNotFound
	}

	return nil
}
