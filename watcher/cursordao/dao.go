// Package cursordao stores the watcher's last seen status id in DynamoDB.
package cursordao

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/rs/zerolog"
	"github.com/savaki/ddb"
)

type Record struct {
	Usage     string `dynamodbav:"usage" ddb:"hash"`
	LastID    uint64 `dynamodbav:"last_id"`
	UpdatedAt int64  `dynamodbav:"updated_at"`
}

// DAO is a cursor keyed by usage, so several watchers can share a table.
type DAO struct {
	table *ddb.Table
	usage string
}

func New(api dynamodbiface.DynamoDBAPI, tableName, usage string) *DAO {
	return &DAO{
		table: ddb.New(api).MustTable(tableName, Record{}),
		usage: usage,
	}
}

func (d *DAO) Load(ctx context.Context) (uint64, bool, error) {
	get := d.table.Get(d.usage).ConsistentRead(true)

	var r Record
	if err := get.ScanWithContext(ctx, &r); err != nil {
		if ddb.IsItemNotFoundError(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to find cursor for usage %v: %w", d.usage, err)
	}
	return r.LastID, true, nil
}

func (d *DAO) Save(ctx context.Context, id uint64) (err error) {
	defer func(begin time.Time) {
		zerolog.Ctx(ctx).Info().
			Dur("elapsed", time.Since(begin)).
			Err(err).
			Str("usage", d.usage).
			Uint64("last_id", id).
			Msg("saved cursor")
	}(time.Now())

	record := Record{
		Usage:     d.usage,
		LastID:    id,
		UpdatedAt: time.Now().Unix(),
	}
	if err := d.table.Put(record).RunWithContext(ctx); err != nil {
		return fmt.Errorf("failed to save cursor for usage %v: %w", d.usage, err)
	}
	return nil
}
