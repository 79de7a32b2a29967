package entity

import (
	"database/sql"
	"fmt"
)

// nextOrder computes the append position for a new sibling: max(order)+1
// among current rows sharing containerID, or 0 when the group is empty.
//
// A NULL container_id forms one shared group: all container-less entities
// (projects, processes, general lists) append to the same global sequence.
//
// Order values are never renumbered after deletes; gaps and duplicates are
// permitted and resolved only by the updated_at tiebreak on reads. Two
// concurrent creates in one group may therefore end up with equal orders,
// which is acceptable as long as each row write itself stays atomic.
func nextOrder(tx *sql.Tx, containerID *string) (int, error) {
	var maxOrder int
	err := tx.QueryRow(
		`SELECT COALESCE(MAX("order"), -1) FROM index_entries WHERE container_id IS ?`,
		containerID,
	).Scan(&maxOrder)
	if err != nil {
		return 0, fmt.Errorf("entity: next order: %w", err)
	}
	return maxOrder + 1, nil
}
