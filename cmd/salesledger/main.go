package main

import (
	"github.com/bizbooks/salesledger/internal/config"
	"github.com/bizbooks/salesledger/internal/logger"
	"github.com/bizbooks/salesledger/internal/observability"
	"github.com/bizbooks/salesledger/internal/server"
	"github.com/bizbooks/salesledger/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
