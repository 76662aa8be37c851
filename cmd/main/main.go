package main

import (
	"github.com/alecthomas/kingpin/v2"
	"github.com/maxbolgarin/contem"
	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/logze/v2"

	"github.com/maxbolgarin/gitpulse/internal/app"
)

var (
	Version, Branch, Commit, BuildDate string
)

var (
	configPath = kingpin.Flag("config", "path to config file").Short('c').String()
	runOnce    = kingpin.Flag("once", "run one analysis cycle and exit").Bool()
	returnURL  = kingpin.Flag("return-url", "callback URL for --once mode").String()
)

func main() {
	kingpin.Parse()
	var err error
	ctx := contem.New(contem.WithLogger(logze.DefaultPtr()), contem.Exit(&err))
	defer ctx.Shutdown()
	err = run(ctx)
	if err != nil {
		logze.DefaultPtr().Error("cannot run", "error", err)
	}
}

func run(ctx contem.Context) error {
	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		return erro.Wrap(err, "load config")
	}
	logze.Init(logze.C().WithConsole().WithLevel(logze.LevelDebug))

	bot, err := app.New(ctx, cfg)
	if err != nil {
		return erro.Wrap(err, "new app")
	}

	if *runOnce {
		if err := bot.RunCycle(ctx, *returnURL); err != nil {
			return erro.Wrap(err, "run cycle")
		}
		return nil
	}

	if err := bot.StartWebhook(ctx); err != nil {
		return erro.Wrap(err, "start webhook")
	}

	<-ctx.Done()
	return nil
}
