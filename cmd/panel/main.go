package main

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lightgame/panel/internal/audit/chain"
	common "github.com/lightgame/panel/internal/cli/common"
	"github.com/lightgame/panel/internal/cli/sessioncmd"
)

func main() {
	if err := newRoot().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRoot() *cobra.Command {
	v := common.NewViper()
	root := &cobra.Command{
		Use:          "panel",
		Short:        "Light Panel command line",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			common.SetupLogger(common.LogOptionsFrom(v))
		},
	}
	pf := root.PersistentFlags()
	pf.String("api", "http://localhost:8080", "game API base URL")
	pf.String("token-file", "", "token file (default: user config dir)")
	pf.Duration("timeout", 0, "game API call timeout")
	pf.String("log-level", "warn", "log level: debug|info|warn|error")
	pf.String("log-format", "console", "log format: console|json")
	pf.String("log-file", "", "log to a rotating file instead of stderr")
	_ = v.BindPFlag("api", pf.Lookup("api"))
	_ = v.BindPFlag("token_file", pf.Lookup("token-file"))
	_ = v.BindPFlag("timeout", pf.Lookup("timeout"))
	_ = v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = v.BindPFlag("log.format", pf.Lookup("log-format"))
	_ = v.BindPFlag("log.file", pf.Lookup("log-file"))

	root.AddCommand(sessioncmd.New(sessioncmd.Env{V: v})...)
	root.AddCommand(configCmd(), auditCmd(), completionCmd(root))
	return root
}

func completionCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     "Generate shell completion",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unknown shell: %s", args[0])
			}
		},
	}
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{Use: "config", Short: "Inspect service config files"}

	var cfgFile, kind, profile string
	var includes []string
	var strict bool
	test := &cobra.Command{Use: "test", Short: "Validate a panel or game API config file"}
	test.Flags().StringVar(&cfgFile, "config", "", "config file path")
	test.Flags().StringSliceVar(&includes, "include", nil, "extra files merged over --config, in order")
	test.Flags().StringVar(&profile, "profile", "", "apply profiles.<name> before validating")
	test.Flags().StringVar(&kind, "kind", "", "panel|gameapi (default: try both)")
	test.Flags().BoolVar(&strict, "strict", true, "also require production settings")
	test.RunE = func(cmd *cobra.Command, args []string) error {
		if cfgFile == "" {
			return fmt.Errorf("--config required")
		}
		v, err := common.LoadWithIncludes(cfgFile, includes)
		if err != nil {
			return err
		}
		if v, err = common.ApplyProfile(v, profile); err != nil {
			return err
		}
		common.ExpandEnv(v)
		out := cmd.OutOrStdout()
		switch strings.ToLower(kind) {
		case "panel":
			return report(out, "panel", common.ValidatePanelConfig(v, strict))
		case "gameapi":
			return report(out, "gameapi", common.ValidateGameAPIConfig(v, strict))
		case "":
			perr := common.ValidatePanelConfig(v, strict)
			if perr == nil && v.IsSet("gameapi") {
				return report(out, "panel", nil)
			}
			gerr := common.ValidateGameAPIConfig(v, strict)
			if gerr == nil {
				return report(out, "gameapi", nil)
			}
			return fmt.Errorf("not a valid config: panel: %v; gameapi: %v", perr, gerr)
		default:
			return fmt.Errorf("unknown kind: %s", kind)
		}
	}
	cfg.AddCommand(test)
	return cfg
}

func report(out io.Writer, kind string, err error) error {
	if err != nil {
		return fmt.Errorf("%s config: %w", kind, err)
	}
	_, err = fmt.Fprintf(out, "%s config OK\n", kind)
	return err
}

func auditCmd() *cobra.Command {
	a := &cobra.Command{Use: "audit", Short: "Work with the panel audit log"}
	a.AddCommand(&cobra.Command{
		Use:   "verify FILE",
		Short: "Check the hash chain of an audit log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := chain.Verify(args[0])
			if err != nil {
				return fmt.Errorf("audit log broken after %d event(s): %w", n, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d event(s), chain intact\n", n)
			return nil
		},
	})
	return a
}
