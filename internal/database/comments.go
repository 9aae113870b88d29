package database

import (
	"context"
	"fmt"

	"shareit/internal/models"
)

const selectComments = `SELECT c.id, c.text, c.item_id, c.author_id, COALESCE(u.name, ''), c.created
              FROM comments c
              LEFT JOIN users u ON u.id = c.author_id`

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `INSERT INTO comments (text, item_id, author_id, created) VALUES (?, ?, ?, ?)`
	created := utc(comment.Created)
	result, err := db.ExecContext(ctx, query, comment.Text, comment.ItemID, comment.AuthorID, created)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	comment.ID = id
	comment.Created = created
	return nil
}

func (db *DB) GetCommentsByItem(ctx context.Context, itemID int64) ([]*models.Comment, error) {
	return db.queryComments(ctx, selectComments+` WHERE c.item_id = ? ORDER BY c.created, c.id`, itemID)
}

func (db *DB) GetCommentsByItems(ctx context.Context, itemIDs []int64) ([]*models.Comment, error) {
	if len(itemIDs) == 0 {
		return []*models.Comment{}, nil
	}
	query := selectComments + ` WHERE c.item_id IN (` + placeholders(len(itemIDs)) + `) ORDER BY c.created, c.id`
	return db.queryComments(ctx, query, int64Args(itemIDs)...)
}

func (db *DB) queryComments(ctx context.Context, query string, args ...interface{}) ([]*models.Comment, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.ItemID, &c.AuthorID, &c.AuthorName, &c.Created); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}
	return comments, nil
}
