package cursordao

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/savaki/ddb"
	"github.com/tj/assert"
)

func withTable(t *testing.T, callback func(ctx context.Context, dao *DAO)) {
	endpoint := os.Getenv("DYNAMODB_ENDPOINT")
	if endpoint == "" {
		t.Skip("DYNAMODB_ENDPOINT not set, e.g. http://localhost:8000")
	}

	var (
		s = session.Must(session.NewSession(aws.NewConfig().
			WithCredentials(credentials.NewStaticCredentials("blah", "blah", "")).
			WithEndpoint(endpoint).
			WithRegion("us-west-2")))
		api       = dynamodb.New(s)
		client    = ddb.New(api)
		tableName = fmt.Sprintf("table-%v", time.Now().UnixNano())
		table     = client.MustTable(tableName, Record{})
		dao       = New(api, tableName, "rss-watcher")
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := table.CreateTableIfNotExists(ctx)
	assert.Nil(t, err)
	defer table.DeleteTableIfExists(ctx)

	callback(ctx, dao)
}

func TestDAO(t *testing.T) {
	withTable(t, func(ctx context.Context, dao *DAO) {
		_, ok, err := dao.Load(ctx)
		assert.Nil(t, err)
		assert.False(t, ok)

		err = dao.Save(ctx, 1780000000000000001)
		assert.Nil(t, err)

		id, ok, err := dao.Load(ctx)
		assert.Nil(t, err)
		assert.True(t, ok)
		assert.EqualValues(t, 1780000000000000001, id)

		// a second usage on the same table is independent
		//
		other := &DAO{table: dao.table, usage: "other"}
		_, ok, err = other.Load(ctx)
		assert.Nil(t, err)
		assert.False(t, ok)
	})
}
