package main

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/iurnickita/debtreport/internal/auth"
	"github.com/iurnickita/debtreport/internal/config"
	"github.com/iurnickita/debtreport/internal/handler"
	"github.com/iurnickita/debtreport/internal/logger"
	"github.com/iurnickita/debtreport/internal/service"
	"github.com/iurnickita/debtreport/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debtreport",
		Short: "Read-only reporting API over client purchases and payments",
		Long: `debtreport loads a static dataset of clients, purchases, payments and admins
once at startup and serves balances, overdue clients and admin lookups over HTTP.

Settings come from flags, then environment (.env is read if present), then defaults.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Flags())
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func run(flags *pflag.FlagSet) error {
	cfg, err := config.GetConfig(flags)
	if err != nil {
		return err
	}

	zaplog, err := logger.NewZapLog(cfg.Logger)
	if err != nil {
		return err
	}
	defer zaplog.Sync()

	ctx := context.Background()

	// данные читаются один раз, до начала приёма запросов
	recordStore, err := store.NewStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	snap, err := store.Load(ctx, recordStore)
	if closer, ok := recordStore.(io.Closer); ok {
		closer.Close()
	}
	if err != nil {
		return err
	}
	zaplog.Info("dataset loaded",
		zap.Int("clients", len(snap.Clients)),
		zap.Int("purchases", len(snap.Purchases)),
		zap.Int("payments", len(snap.Payments)),
		zap.Int("admins", len(snap.Admins)),
	)

	auth := auth.NewAuth(snap.Admins)
	service := service.NewService(snap, time.Now(), zaplog)

	return handler.Serve(cfg.Handler, auth, service, zaplog)
}
