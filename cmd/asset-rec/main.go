package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"asset-rec/internal/core/engine"
	"asset-rec/internal/platform/config"
	"asset-rec/internal/platform/logx"
)

func main() {
	cfg := config.ParseFlags()

	logx.SetVerbosity(cfg.Verbosity)
	if cfg.JSONLogs {
		logx.SetJSON(true)
	}

	if cfg.Target == "" {
		fmt.Fprintln(os.Stderr, "uso: -target example.com [-profile quick|default|comprehensive|passive]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := config.ApplyProxy(cfg.Proxy); err != nil {
		logx.Errorf("%v", err)
		os.Exit(1)
	}
	if err := config.ConfigureRootCAs(cfg.ProxyCACert); err != nil {
		logx.Errorf("%v", err)
		os.Exit(1)
	}

	// Una señal cancela la ejecución entera; el motor devuelve lo agregado
	// hasta el momento marcado como parcial.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := engine.New(cfg, engine.DefaultRegistry())
	rep, err := eng.Run(ctx)
	if err != nil {
		logx.Errorf("%v", err)
		os.Exit(1)
	}

	if cfg.OutFile != "" {
		if err := rep.Save(cfg.OutFile); err != nil {
			logx.Errorf("no se pudo escribir el informe: %v", err)
			os.Exit(1)
		}
		logx.Infof("Informe escrito en %s (risk=%s, activos=%d/%d)",
			cfg.OutFile, rep.Summary.RiskLevel, rep.Summary.ActiveCount, rep.Summary.TotalUnique)
		return
	}

	if err := rep.WriteJSON(os.Stdout); err != nil {
		logx.Errorf("no se pudo serializar el informe: %v", err)
		os.Exit(1)
	}
}
