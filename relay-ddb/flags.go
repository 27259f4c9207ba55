package relayddb

import (
	relaycli "github.com/SundaeSwap-finance/sundae-post-relay/relay-cli"
	"github.com/urfave/cli/v2"
)

var DDBOpts struct {
	DAXCluster string
	Endpoint   string
}

var DAXClusterFlag = relaycli.StringFlag("dax-cluster", "The DAX cluster to connect to", &DDBOpts.DAXCluster)
var EndpointFlag = relaycli.StringFlag("dynamodb-endpoint", "Override the DynamoDB endpoint, e.g. for DynamoDB local", &DDBOpts.Endpoint)

var DDBFlags = []cli.Flag{
	DAXClusterFlag,
	EndpointFlag,
}
