package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/nedpals/enumcomplete/analysis"
	"github.com/nedpals/enumcomplete/analysis/store"
	"github.com/nedpals/enumcomplete/completion"
	"github.com/nedpals/enumcomplete/helpers"
	"github.com/nedpals/enumcomplete/logger"
	"github.com/nedpals/enumcomplete/lsp_server"
	"github.com/nedpals/enumcomplete/release"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	config    *helpers.Config
	zapLogger = zap.NewNop()
	syncLog   = func() {}
)

var rootCmd = &cobra.Command{
	Use:     release.Name,
	Version: release.Version(),
	Short:   "enumcomplete completes enum members from bare identifiers.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if dataDir, _ := cmd.Flags().GetString("data-dir"); len(dataDir) != 0 {
			helpers.SetDataDirPath(dataDir)
		}

		loaded, err := helpers.LoadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		config = loaded

		verbose, _ := cmd.Flags().GetBool("verbose")
		newLog, sync, err := newLogger(config, verbose)
		if err != nil {
			return err
		}

		zapLogger, syncLog = newLog, sync
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		syncLog()
	},
}

// targetOverride returns the target set through config, flags or env.
func targetOverride() (*completion.ScriptTarget, error) {
	if config == nil || len(config.Target) == 0 {
		return nil, nil
	}

	target, err := analysis.ParseScriptTarget(config.Target)
	if err != nil {
		return nil, err
	}
	return &target, nil
}

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Starts a language server to be consumed by LSP-supported editors",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := targetOverride()
		if err != nil {
			return err
		}

		opts := lsp_server.Options{
			Logger: zapLogger,
			Target: target,
		}
		opts.Listen, _ = cmd.Flags().GetString("listen")
		opts.Verbose, _ = cmd.Flags().GetBool("verbose")

		if config.UsageLog {
			usage, err := logger.NewLogger()
			if err != nil {
				return err
			}
			opts.Usage = usage
		}

		eCode, err := lsp_server.Start(opts)
		opts.Usage.Close()
		if err != nil {
			return err
		}

		syncLog()
		os.Exit(eCode)
		return nil
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete [file-path] [offset]",
	Short: "Prints the enum member completions at a byte offset of a file. For testing purposes only",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		offset, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Wrapf(err, "invalid offset %q", args[1])
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "read %s", path)
		}

		if offset < 0 || offset > len(content) {
			return errors.Newf("offset %d is outside of %s (%d bytes)", offset, path, len(content))
		}

		st := store.NewStore(store.WithLogger(zapLogger.Named("store")))
		st.InsertDocument(path, string(content))

		options := completion.CompilerOptions{Target: completion.DefaultTarget}
		if configPath, found := analysis.FindConfigFile(filepath.Dir(path)); found {
			if options, err = analysis.LoadCompilerOptions(configPath); err != nil {
				return err
			}
		}

		target, err := targetOverride()
		if err != nil {
			return err
		} else if target != nil {
			options.Target = *target
		}
		st.SetCompilerOptions(options)

		plugin := completion.New(st, completion.WithLogger(zapLogger.Named("completion")))
		info := plugin.GetCompletionsAtPosition(path, offset)
		return printJSON(cmd.OutOrStdout(), info)
	},
}

func printJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Prints the recorded completion requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		usage, err := logger.NewLogger()
		if err != nil {
			return err
		}
		defer usage.Close()

		if xlsxPath, _ := cmd.Flags().GetString("xlsx"); len(xlsxPath) != 0 {
			if err := usage.ExportXLSX(xlsxPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "saved to", xlsxPath)
			return nil
		}

		entriesIter, err := usage.Entries()
		if err != nil {
			return err
		}

		entries, err := entriesIter.List()
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), entries)
	},
}

var usageIdCmd = &cobra.Command{
	Use:   "id",
	Short: "Returns the installation ID attached to recorded requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		usage, err := logger.NewLogger()
		if err != nil {
			return err
		}
		defer usage.Close()

		if isGenerate, _ := cmd.Flags().GetBool("generate"); isGenerate {
			if err := usage.GenerateInstallationId(); err != nil {
				return err
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), usage.InstallationId())
		return nil
	},
}

var usageResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Deletes the recorded completion requests of this installation",
	RunE: func(cmd *cobra.Command, args []string) error {
		usage, err := logger.NewLogger()
		if err != nil {
			return err
		}
		defer usage.Close()

		if err := usage.Reset(); err != nil {
			return err
		}

		if err := usage.GenerateInstallationId(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(usageCmd)
	usageCmd.AddCommand(usageIdCmd)
	usageCmd.AddCommand(usageResetCmd)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose mode")
	rootCmd.PersistentFlags().String("data-dir", "", "the directory for config and usage logs. To override the default directory, set the ENUMCOMPLETE_DIR environment variable.")
	rootCmd.PersistentFlags().String("target", "", "the script target to use instead of the one in tsconfig.json, eg. es5 or esnext")
	rootCmd.PersistentFlags().String("log-level", "", "the minimum level of logs to write (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to this file instead of stderr")
	lspCmd.Flags().String("listen", "", "serve TCP connections on this address instead of stdio, eg. 127.0.0.1:9257")
	lspCmd.Flags().Bool("usage-log", false, "record completion requests into the usage log")
	usageCmd.Flags().String("xlsx", "", "export the usage log to an excel file")
	usageIdCmd.Flags().Bool("generate", false, "generate a new installation ID")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalln(err)
	}
}
