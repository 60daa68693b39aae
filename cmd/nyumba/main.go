package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/nyumba/nyumba/internal/clock"
	"github.com/nyumba/nyumba/internal/config"
	"github.com/nyumba/nyumba/internal/logger"
	"github.com/nyumba/nyumba/internal/migration"
	"github.com/nyumba/nyumba/internal/scheduler"
	"github.com/nyumba/nyumba/internal/server"
	"github.com/nyumba/nyumba/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
		scheduler.Module,
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
