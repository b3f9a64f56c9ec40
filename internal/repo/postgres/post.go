package postgres

import (
	"database/sql"
	"errors"
	"instalytics-backend/internal/entity"
	"instalytics-backend/internal/repo"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

const postColumns = `username, media_id, shortcode, taken_at, like_count, comment_count,
	save_count, share_count, reshare_count, play_count, video_view_count,
	is_video, media_type, carousel_media_count, caption, hashtags,
	location_name, is_collab, collab_with, is_sponsored, is_ad`

type Post struct {
	db *sqlx.DB
}

func NewPost(db *sqlx.DB) repo.Post {
	return &Post{
		db: db,
	}
}

func (p *Post) UpsertPosts(posts []*entity.InstagramPost) error {
	if len(posts) == 0 {
		return nil
	}

	// При повторном сборе перезаписываем только изменяемые счётчики и текстовые
	// поля, идентификаторы поста остаются прежними
	query := `
        INSERT INTO instagram_post (` + postColumns + `)
        VALUES (:username, :media_id, :shortcode, :taken_at, :like_count, :comment_count,
                :save_count, :share_count, :reshare_count, :play_count, :video_view_count,
                :is_video, :media_type, :carousel_media_count, :caption, :hashtags,
                :location_name, :is_collab, :collab_with, :is_sponsored, :is_ad)
        ON CONFLICT (media_id) DO UPDATE SET
            like_count = EXCLUDED.like_count,
            comment_count = EXCLUDED.comment_count,
            save_count = EXCLUDED.save_count,
            share_count = EXCLUDED.share_count,
            reshare_count = EXCLUDED.reshare_count,
            play_count = EXCLUDED.play_count,
            video_view_count = EXCLUDED.video_view_count,
            caption = EXCLUDED.caption,
            hashtags = EXCLUDED.hashtags,
            location_name = EXCLUDED.location_name
    `

	tx, err := p.db.Beginx()
	if err != nil {
		return err
	}
	for _, post := range posts {
		if _, err := tx.NamedExec(query, post); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (p *Post) GetPost(mediaID string) (*entity.InstagramPost, error) {
	query := `SELECT id, ` + postColumns + ` FROM instagram_post WHERE media_id = $1`

	var post entity.InstagramPost
	err := p.db.Get(&post, query, mediaID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (p *Post) GetPosts(filter *entity.PostFilter) ([]*entity.InstagramPost, error) {
	// Фильтры опциональны, поэтому запрос собирается построителем
	builder := sq.Select("id, " + postColumns).
		From("instagram_post").
		OrderBy("taken_at DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.Username != "" {
		builder = builder.Where(sq.Eq{"username": filter.Username})
	}
	if filter.OnlyVideo {
		builder = builder.Where(sq.Eq{"is_video": true})
	}
	if filter.OnlyCollab {
		builder = builder.Where(sq.Eq{"is_collab": true})
	}
	if !filter.Since.IsZero() {
		builder = builder.Where(sq.GtOrEq{"taken_at": filter.Since})
	}
	if !filter.Until.IsZero() {
		builder = builder.Where(sq.LtOrEq{"taken_at": filter.Until})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	posts := make([]*entity.InstagramPost, 0)
	if err := p.db.Select(&posts, query, args...); err != nil {
		return nil, err
	}
	return posts, nil
}

func (p *Post) CountPosts(username string) (int, error) {
	query := `SELECT COUNT(*) FROM instagram_post WHERE username = $1`

	var count int
	if err := p.db.Get(&count, query, username); err != nil {
		return 0, err
	}
	return count, nil
}
