package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mudgear/qlineup_bot/internal/model"
	"github.com/mudgear/qlineup_bot/internal/repository/base"
)

// MemberRepository persists the directory of known community participants.
type MemberRepository struct {
	*base.Repository
}

func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{Repository: base.NewRepository(pool)}
}

// ListActive returns every active member, for loading the directory snapshot.
func (r *MemberRepository) ListActive(ctx context.Context) ([]*model.Member, error) {
	query := `
		SELECT id, platform_id, name, real_name, is_active, created_at
		FROM members
		WHERE is_active
		ORDER BY name
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []*model.Member
	for rows.Next() {
		var m model.Member
		err := rows.Scan(
			&m.ID,
			&m.PlatformID,
			&m.Name,
			&m.RealName,
			&m.IsActive,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, &m)
	}

	return members, rows.Err()
}

// Upsert creates or refreshes a member keyed by platform id, used when the
// directory is synchronized from the chat platform.
func (r *MemberRepository) Upsert(ctx context.Context, member *model.Member) error {
	query := `
		INSERT INTO members (platform_id, name, real_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (platform_id) DO UPDATE
		SET name = EXCLUDED.name, real_name = EXCLUDED.real_name, is_active = TRUE
		RETURNING id, is_active, created_at
	`

	err := r.QueryRow(ctx, query, member.PlatformID, member.Name, member.RealName).
		Scan(&member.ID, &member.IsActive, &member.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert member: %w", err)
	}

	return nil
}
