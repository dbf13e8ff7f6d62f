package usage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type pgStore struct {
	DB        *sql.DB
	FreeLimit int
}

// NewPGStore constructs a Postgres-backed usage store.
func NewPGStore(db *sql.DB, freeLimit int) *pgStore {
	if freeLimit <= 0 {
		freeLimit = DefaultFreeLimit
	}
	return &pgStore{DB: db, FreeLimit: freeLimit}
}

func (s *pgStore) Get(ctx context.Context, userID string) (Usage, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Usage{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	u, err := s.lockAndEnsure(ctx, tx, userID)
	if err != nil {
		return Usage{}, err
	}
	if err = tx.Commit(); err != nil {
		return Usage{}, err
	}
	return u, nil
}

func (s *pgStore) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	if n <= 0 {
		return s.Get(ctx, userID)
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Usage{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	u, err := s.lockAndEnsure(ctx, tx, userID)
	if err != nil {
		return Usage{}, err
	}
	if !u.Unlimited() {
		if u.Used+n > u.Limit {
			err = ErrLimitReached
			return Usage{}, err
		}
		u.Used += n
		if _, err = tx.ExecContext(ctx, `
UPDATE usage SET analyses_used = $1 WHERE user_id = $2`, u.Used, userID); err != nil {
			return Usage{}, err
		}
	}
	if err = tx.Commit(); err != nil {
		return Usage{}, err
	}
	return u, nil
}

func (s *pgStore) Upgrade(ctx context.Context, userID, paymentID string, upgradedAt time.Time) (Usage, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Usage{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	u, err := s.lockAndEnsure(ctx, tx, userID)
	if err != nil {
		return Usage{}, err
	}
	u.Plan = PlanPro
	u.PaymentID = paymentID
	u.UpgradedAt = &upgradedAt
	if _, err = tx.ExecContext(ctx, `
UPDATE usage SET plan = $1, payment_id = $2, upgraded_at = $3 WHERE user_id = $4`,
		u.Plan, u.PaymentID, u.UpgradedAt, userID); err != nil {
		return Usage{}, err
	}
	if err = tx.Commit(); err != nil {
		return Usage{}, err
	}
	return u, nil
}

func (s *pgStore) Reset(ctx context.Context, userID string) (Usage, error) {
	u := defaultUsage(s.FreeLimit)
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO usage (user_id, plan, analyses_used, payment_id, upgraded_at)
VALUES ($1, $2, 0, NULL, NULL)
ON CONFLICT (user_id) DO UPDATE SET plan = EXCLUDED.plan, analyses_used = 0, payment_id = NULL, upgraded_at = NULL`,
		userID, u.Plan)
	if err != nil {
		return Usage{}, err
	}
	return u, nil
}

func (s *pgStore) lockAndEnsure(ctx context.Context, tx *sql.Tx, userID string) (Usage, error) {
	u := Usage{Limit: s.FreeLimit}
	var paymentID sql.NullString
	var upgradedAt sql.NullTime
	row := tx.QueryRowContext(ctx, `
SELECT plan, analyses_used, payment_id, upgraded_at FROM usage WHERE user_id = $1 FOR UPDATE`, userID)
	err := row.Scan(&u.Plan, &u.Used, &paymentID, &upgradedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			u = defaultUsage(s.FreeLimit)
			if _, err = tx.ExecContext(ctx, `
INSERT INTO usage (user_id, plan, analyses_used) VALUES ($1, $2, $3)`,
				userID, u.Plan, u.Used); err != nil {
				return Usage{}, err
			}
			return u, nil
		}
		return Usage{}, err
	}
	if paymentID.Valid {
		u.PaymentID = paymentID.String
	}
	if upgradedAt.Valid {
		t := upgradedAt.Time
		u.UpgradedAt = &t
	}
	return u, nil
}
