package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/babble/internal/corpus"
	"github.com/samcharles93/babble/internal/logger"
)

func listCorporaCmd() *cli.Command {
	return &cli.Command{
		Name:    "list-corpora",
		Aliases: []string{"ls", "corpora"},
		Usage:   "List available corpora",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "corpora-path",
				Aliases:     []string{"path"},
				Usage:       "path to directory containing .txt corpora",
				Destination: &corporaPath,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			cfg := LoadConfig()
			if cfg.CorporaDir != "" && !cmd.IsSet("corpora-path") {
				corporaPath = cfg.CorporaDir
			}

			dir := corporaDir(corporaPath)
			if dir == "" {
				return cli.Exit(fmt.Sprintf("error: --corpora-path is required unless %s is set", envCorporaDir), 1)
			}
			files, err := corpus.Discover(dir)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if len(files) == 0 {
				log.Info("no corpora found", "path", dir)
				return nil
			}
			printCorpora(os.Stdout, dir, files)
			return nil
		},
	}
}

func printCorpora(w io.Writer, dir string, files []string) {
	fmt.Fprintf(w, "Corpora in %s:\n\n", dir)
	for _, f := range files {
		name := corpus.Name(f)
		info, err := os.Stat(f)
		if err != nil {
			fmt.Fprintf(w, "  %s\n", name)
			continue
		}
		fmt.Fprintf(w, "  %-40s %8s\n", name, formatSize(info.Size()))
	}
	fmt.Fprintf(w, "\n%d corpus file(s) found\n", len(files))
}
