//nolint:whitespace // can't make both editor and linter happy
package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/mpapenbr/bikechallenge/pkg/db/mytypes"
	"github.com/mpapenbr/bikechallenge/pkg/model"
	"github.com/mpapenbr/bikechallenge/pkg/repository"
)

// Create stores the entry. A missing id is generated, a missing submission
// time is set by the database. Both are written back into entry.
func Create(
	ctx context.Context,
	conn repository.Querier,
	entry *model.LeaderboardEntry,
) error {
	if entry.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		entry.ID = id
	}
	var submitted *time.Time
	if !entry.SubmittedAt.IsZero() {
		submitted = &entry.SubmittedAt
	}
	row := conn.QueryRow(ctx, `
	insert into leaderboard_entry (
		id, player_id, player_name, total_score, completion_time, avg_speed,
		team_finished, total_team_size, team_composition, difficulty, checksum,
		submitted_at
	) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,coalesce($12,now()))
	returning submitted_at
	`,
		entry.ID, entry.PlayerID, entry.PlayerName, entry.TotalScore,
		entry.CompletionTime, entry.AvgSpeed.Round(2),
		entry.TeamFinished, entry.TotalTeamSize,
		mytypes.StringSlice(entry.TeamComposition),
		string(entry.Difficulty), entry.Checksum, submitted,
	)
	return row.Scan(&entry.SubmittedAt)
}

func LoadById(ctx context.Context, conn repository.Querier, id uuid.UUID) (
	*model.LeaderboardEntry, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where id=$1", selector), id)
	return readData(row)
}

// Top returns the entries in leaderboard order.
func Top(ctx context.Context, conn repository.Querier, offset, limit int) (
	[]*model.LeaderboardEntry, error,
) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s %s offset $1 limit $2", selector, ordering),
		offset, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows,
		func(row pgx.CollectableRow) (*model.LeaderboardEntry, error) {
			return readData(row)
		})
}

func Count(ctx context.Context, conn repository.Querier) (int, error) {
	var count int
	err := conn.QueryRow(ctx, "select count(*) from leaderboard_entry").Scan(&count)
	return count, err
}

// Rank returns the 1-based position of the entry.
func Rank(ctx context.Context, conn repository.Querier, id uuid.UUID) (int, error) {
	row := conn.QueryRow(ctx, `
	select (
		select count(*) from leaderboard_entry o
		where o.total_score > e.total_score
		or (o.total_score = e.total_score and o.completion_time < e.completion_time)
		or (o.total_score = e.total_score and o.completion_time = e.completion_time
			and o.submitted_at < e.submitted_at)
	) + 1
	from leaderboard_entry e where e.id=$1
	`, id)
	var rank int
	if err := row.Scan(&rank); err != nil {
		return 0, repository.NoData(err)
	}
	return rank, nil
}

// BestByPlayer returns the best ranked entry of a player.
func BestByPlayer(ctx context.Context, conn repository.Querier, playerID string) (
	*model.LeaderboardEntry, error,
) {
	row := conn.QueryRow(ctx,
		fmt.Sprintf("%s where player_id=$1 %s limit 1", selector, ordering),
		playerID)
	return readData(row)
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteById(ctx context.Context, conn repository.Querier, id uuid.UUID) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from leaderboard_entry where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// little helper
const (
	selector = `
select id, player_id, player_name, total_score, completion_time, avg_speed,
team_finished, total_team_size, team_composition, difficulty, checksum,
submitted_at
from leaderboard_entry
`
	ordering = "order by total_score desc, completion_time asc, submitted_at asc"
)

func readData(row pgx.Row) (*model.LeaderboardEntry, error) {
	var e model.LeaderboardEntry
	var composition mytypes.StringSlice
	var difficulty string
	if err := row.Scan(
		&e.ID, &e.PlayerID, &e.PlayerName, &e.TotalScore, &e.CompletionTime,
		&e.AvgSpeed, &e.TeamFinished, &e.TotalTeamSize, &composition,
		&difficulty, &e.Checksum, &e.SubmittedAt,
	); err != nil {
		return nil, repository.NoData(err)
	}
	e.TeamComposition = []string(composition)
	e.Difficulty = model.Difficulty(difficulty)
	return &e, nil
}
