package cursordao

import (
	"fmt"

	relayddb "github.com/SundaeSwap-finance/sundae-post-relay/relay-ddb"
	"github.com/aws/aws-sdk-go/aws/session"
)

// Build creates a DAO on the given table, going through DAX when configured.
func Build(s *session.Session, tableName, usage string) (*DAO, error) {
	api, err := relayddb.DynamoDBAPI(s)
	if err != nil {
		return nil, fmt.Errorf("failed to build dynamodb client: %w", err)
	}
	return New(api, tableName, usage), nil
}
