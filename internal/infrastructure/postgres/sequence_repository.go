package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/sequence"
)

// SequenceRepository は採番リポジトリのPostgreSQL実装
// 行排他ロック（SELECT ... FOR UPDATE）で読み取り・加算・書き込みを
// 1トランザクション内に閉じ込め、同一キーへの並行採番を直列化する
type SequenceRepository struct{ db *sqlx.DB }

// NewSequenceRepository は SequenceRepository を作成する
func NewSequenceRepository(db *sqlx.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// NextValue はカウンターを加算して整形済みコードを返す
// 行が存在しない場合は同一トランザクション内で作成してから加算する
// ため、初回採番同士の競合でも値が重複することはない
func (r *SequenceRepository) NextValue(ctx context.Context, tenantID, sequenceType, prefix string, digits int) (string, error) {
	if sequenceType == "" {
		return "", sequence.ErrSequenceTypeRequired
	}
	if digits < 1 {
		return "", sequence.ErrInvalidDigits
	}
	sequenceType = strings.ToUpper(sequenceType)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	// 先に行を確保しておく。既存行があれば何もしない
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sequences (tenant_id, sequence_type, prefix, digits, current_value) VALUES ($1, $2, $3, $4, 0) ON CONFLICT (tenant_id, sequence_type) DO NOTHING`,
		tenantID, sequenceType, prefix, digits,
	); err != nil {
		return "", fmt.Errorf("採番行の作成に失敗: %w", err)
	}

	var current int64
	if err := tx.QueryRowContext(ctx,
		`SELECT current_value FROM sequences WHERE tenant_id = $1 AND sequence_type = $2 FOR UPDATE`,
		tenantID, sequenceType,
	).Scan(&current); err != nil {
		return "", fmt.Errorf("採番行のロック取得に失敗: %w", err)
	}

	next := current + 1
	if _, err := tx.ExecContext(ctx,
		`UPDATE sequences SET current_value = $1, updated_at = NOW() WHERE tenant_id = $2 AND sequence_type = $3`,
		next, tenantID, sequenceType,
	); err != nil {
		return "", fmt.Errorf("採番値の更新に失敗: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("コミットに失敗: %w", err)
	}

	return FormatCode(prefix, next, digits), nil
}

// FormatCode は採番値をゼロ埋めしてプレフィックスと連結する
func FormatCode(prefix string, value int64, digits int) string {
	return fmt.Sprintf("%s%0*d", prefix, digits, value)
}

var _ sequence.Repository = (*SequenceRepository)(nil)
