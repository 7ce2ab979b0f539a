package main

import (
	"context"
	"errors"
	"log"

	"github.com/Perkly/Perkly-Backend/api"
	"github.com/Perkly/Perkly-Backend/services/scheduler"
	"github.com/Perkly/Perkly-Backend/utils"
	"github.com/robfig/cron/v3"
)

func main() {
	server := api.NewServer(utils.EnvPath)

	c := cron.New()

	_, err := c.AddFunc(server.Config().WalletSweepSpec, func() {
		err := server.Sweeper().ProcessWalletCreation(context.Background())
		if err != nil && !errors.Is(err, scheduler.ErrSweepAlreadyRunning) {
			server.Logger().Error("wallet creation sweep exited with error", err)
		}
	})
	if err != nil {
		log.Fatalf("invalid wallet sweep schedule - %v", err)
	}

	_, err = c.AddFunc(server.Config().RewardSweepSpec, func() {
		err := server.Sweeper().ProcessRewardTransactions(context.Background())
		if err != nil && !errors.Is(err, scheduler.ErrSweepAlreadyRunning) {
			server.Logger().Error("reward transaction sweep exited with error", err)
		}
	})
	if err != nil {
		log.Fatalf("invalid reward sweep schedule - %v", err)
	}

	c.Start()
	defer c.Stop()

	server.Start()
}
