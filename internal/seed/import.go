package seed

import (
	"context"

	"taskboard/internal/domain"
	"taskboard/internal/errors"
	"taskboard/internal/repository/sqlite"
)

// Import writes tasks to repo, keeping their IDs. Tasks whose ID is already
// stored are skipped and counted, so importing twice is harmless.
func Import(ctx context.Context, repo sqlite.Repository, tasks []domain.Task) (inserted, skipped int, err error) {
	mapper := domain.NewTaskMapper()
	for _, task := range tasks {
		row := mapper.ToDatabase(task)
		if err := repo.CreateTask(ctx, &row); err != nil {
			if errors.IsErrorType(err, errors.ErrorTypeConflict) {
				skipped++
				continue
			}
			return inserted, skipped, err
		}
		inserted++
	}
	return inserted, skipped, nil
}
