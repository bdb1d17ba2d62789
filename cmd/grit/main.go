package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/odvcencio/grit/pkg/repo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0-dev"

// app carries the settings shared by every subcommand. Values resolve
// through viper: explicit flag, then GRIT_* environment, then flag default.
type app struct {
	v      *viper.Viper
	logger *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "grit:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	root := &cobra.Command{
		Use:           "grit",
		Short:         "Content-addressed object store with a git-compatible layout",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = newLogger(cmd.ErrOrStderr(), a.v.GetBool("verbose"))
		},
	}

	flags := root.PersistentFlags()
	flags.String("repo", ".", "path inside the repository")
	flags.String("meta-dir", repo.DefaultMetaDir, "name of the repository metadata directory")
	flags.BoolP("verbose", "v", false, "log debug output to stderr")

	a.v.BindPFlag("repo", flags.Lookup("repo"))
	a.v.BindPFlag("meta_dir", flags.Lookup("meta-dir"))
	a.v.BindPFlag("verbose", flags.Lookup("verbose"))
	a.v.SetEnvPrefix("GRIT")
	a.v.AutomaticEnv()

	root.AddCommand(newVersionCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(a.newHashObjectCmd())
	root.AddCommand(a.newCatFileCmd())
	root.AddCommand(a.newLsTreeCmd())
	root.AddCommand(a.newWriteTreeCmd())
	root.AddCommand(a.newCommitTreeCmd())
	root.AddCommand(a.newFsckCmd())
	return root
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (a *app) metaDir() string {
	return a.v.GetString("meta_dir")
}

// openRepo locates the repository containing the --repo path.
func (a *app) openRepo() (*repo.Repo, error) {
	r, err := repo.Open(a.v.GetString("repo"), repo.WithMetaDir(a.metaDir()))
	if err != nil {
		return nil, err
	}
	a.logger.Debug("opened repository", "root", r.RootDir, "meta", r.MetaDir)
	return r, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "grit "+version)
		},
	}
}
