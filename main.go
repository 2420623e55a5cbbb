// darkroom is a static site generator for a film-photography blog: it
// turns a tree of Markdown pages and HTML templates into a finished site,
// folding blog posts into paginated index pages with comment threads, and
// can serve the output locally while rebuilding on change.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var confPath string
	var verbose bool
	var conf *SiteConf

	root := &cobra.Command{
		Use:           "darkroom",
		Short:         "Build a photo blog from Markdown pages and HTML templates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

			var err error
			conf, err = readConf(confPath)
			return err
		},
	}
	root.PersistentFlags().StringVar(&confPath, "config", "darkroom.yml", "path to the site configuration file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the input directories and seed files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(conf)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "build",
		Short: "Run one full site build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(conf)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "develop [port]",
		Short: "Build, serve locally, and rebuild on change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			port := 8000
			if len(args) == 1 {
				p, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid port %q", args[0])
				}
				port = p
			}
			return runDevelop(conf, port)
		},
	})

	return root
}
