// Command nkauth is a local account, session and license manager.
//
// Usage:
//
//	nkauth [flags]          interactive shell
//	nkauth [flags] import   copy the JSON documents into auth.db
//	nkauth version          print build information
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nullsec/nkauth/internal/buildinfo"
	"github.com/nullsec/nkauth/internal/cli"
	"github.com/nullsec/nkauth/internal/config"
	"github.com/nullsec/nkauth/internal/flagx"
	"github.com/nullsec/nkauth/internal/logging"
	"github.com/nullsec/nkauth/internal/repositories/repomanager"
)

var valueFlags = []string{"-c", "-config", "--config", "-d", "-b", "-t", "-l"}

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "nkauth:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cmd := ""
	if pos := flagx.Positional(args, valueFlags); len(pos) > 0 {
		cmd = pos[0]
	}
	if cmd == "version" {
		buildinfo.PrintBuildData(os.Stdout)
		return nil
	}

	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	log, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	switch cmd {
	case "":
		app, err := cli.NewApp(ctx, cfg, log)
		if err != nil {
			return err
		}
		return app.Run(ctx)

	case "import":
		counts, err := repomanager.ImportJSON(ctx, cfg.DataDir)
		if err != nil {
			return err
		}
		for _, name := range []string{repomanager.Users, repomanager.Sessions, repomanager.Licenses} {
			fmt.Printf("%s: %d record(s) imported\n", name, counts[name])
		}
		log.Info(ctx, "import finished", "data_dir", cfg.DataDir)
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}
