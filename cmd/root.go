package cmd

import (
	"errors"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/josephlewis42/mysh/core"
	"github.com/josephlewis42/mysh/core/config"
	"github.com/josephlewis42/mysh/core/logger"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"
)

var (
	cfgPath     string
	commandLine string
)

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mysh",
	Short: "A small interactive shell",
	Long: `A small interactive shell that tracks its own working directory,
keeps a persistent history, and manages background processes.

Type "help" at the prompt to list the valid commands.`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		appLogger := log.New(cmd.ErrOrStderr(), "[mysh] ", 0)

		configuration, err := config.LoadOrDefault(cfgPath, appLogger)
		if err != nil {
			return err
		}

		switch configuration.Color {
		case config.ColorAlways:
			color.NoColor = false
		case config.ColorNever:
			color.NoColor = true
		}

		events, closeEvents := openEventLog(configuration, appLogger)
		defer closeEvents()

		sh, err := core.NewShellFromConfig(configuration, os.Stdin, cmd.OutOrStdout(), cmd.ErrOrStderr(), events)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("command") {
			sh.Handle(commandLine)
			sh.Close()
			return nil
		}

		// Ctrl-C belongs to the foreground child, the shell keeps running.
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt)
		defer signal.Stop(sigs)
		go func() {
			for range sigs {
			}
		}()

		isTerminal := terminal.IsTerminal(int(os.Stdin.Fd()))
		rl, err := newReadline(configuration.Prompt, os.Stdin, cmd.OutOrStdout(), cmd.ErrOrStderr(), isTerminal)
		if err != nil {
			return err
		}
		defer rl.Close()

		if configuration.Banner && isTerminal {
			core.WriteBanner(cmd.OutOrStdout())
		}

		runErr := sh.Run(rl)
		sh.Close()
		return runErr
	},
}

func newReadline(prompt string, stdin io.Reader, stdout, stderr io.Writer, isTerminal bool) (*readline.Instance, error) {
	cfg := &readline.Config{
		Prompt: prompt,
		Stdin:  readline.NewCancelableStdin(stdin),
		Stdout: stdout,
		Stderr: stderr,
		FuncIsTerminal: func() bool {
			return isTerminal
		},
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	return readline.NewEx(cfg)
}

// openEventLog starts a session in the configured event log. If the log can't
// be opened the session's events are dropped.
func openEventLog(configuration *config.Configuration, appLogger *log.Logger) (*logger.SessionLogger, func()) {
	if configuration.AppLog == "" {
		return logger.NewNopLogger().NewSession(), func() {}
	}

	fd, err := configuration.OpenAppLog()
	if err != nil {
		appLogger.Printf("Couldn't open event log, events won't be recorded: %v", err)
		return logger.NewNopLogger().NewSession(), func() {}
	}

	return logger.NewJsonLinesLogRecorder(fd).NewSession(), func() { fd.Close() }
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single command line and exit")
}
