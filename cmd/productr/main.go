package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ishu524/productr/config"
	"github.com/ishu524/productr/internal/adminapi"
	"github.com/ishu524/productr/internal/app"
	"github.com/ishu524/productr/internal/webserver"
)

var (
	h        = flag.Bool("h", false, "help usage")
	conffile = flag.String("c", "productr.yml", "config file")
)

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		os.Exit(0)
	}

	cfg := config.LoadConfig(*conffile)

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		os.Exit(1)
	}
	defer application.Release()

	webserver.Init(application)
	adminapi.InitRouter()

	errCh := make(chan error, 1)
	go func() {
		errCh <- webserver.Instance().Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		zap.S().Errorf("web server stopped: %v", err)
	case sig := <-sigCh:
		zap.S().Infof("received signal %s, shutting down", sig)
	}
}
