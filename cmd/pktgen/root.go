package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatedier/pktgen/client"
	"github.com/fatedier/pktgen/pkg/log"
	"github.com/fatedier/pktgen/version"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
	configFile  string
	options     = client.DefaultOptions()
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "version of pktgen")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "toml config file, explicit flags override it")
	rootCmd.PersistentFlags().IntVarP(&options.SoftwareID, "software_id", "i", options.SoftwareID, "software id stamped on every frame [0..255]")
	rootCmd.PersistentFlags().StringVarP(&options.WireOrder, "wire_order", "w", options.WireOrder, "wire byte order, little or big")
	rootCmd.PersistentFlags().IntVarP(&options.Size, "size", "n", options.Size, "buffer size for non-interactive runs, negative to prompt")
	rootCmd.PersistentFlags().IntVarP(&options.Count, "count", "", options.Count, "number of transfers for non-interactive runs")
	rootCmd.PersistentFlags().IntVarP(&options.MinSize, "min_size", "", options.MinSize, "smallest buffer size accepted at the prompt")
	rootCmd.PersistentFlags().IntVarP(&options.MaxSize, "max_size", "", options.MaxSize, "largest buffer size accepted at the prompt")
	rootCmd.PersistentFlags().Int64VarP(&options.Seed, "seed", "", options.Seed, "random seed, 0 seeds from the clock")
	rootCmd.PersistentFlags().StringVarP(&options.Target, "target", "t", "", "deliver frames to -, file://path, tcp://host:port or serial:///dev/tty?baud=N")
	rootCmd.PersistentFlags().IntVarP(&options.Rate, "rate", "r", 0, "delivery rate limit in bytes per second, 0 for none")
	rootCmd.PersistentFlags().BoolVarP(&options.Progress, "progress", "p", false, "show a progress bar while delivering")
	rootCmd.PersistentFlags().BoolVarP(&options.HexDump, "hexdump", "x", false, "append a hex dump of each frame")
	rootCmd.PersistentFlags().BoolVarP(&options.Quiet, "quiet", "q", false, "render frames to the debug log instead of stdout")
	rootCmd.PersistentFlags().BoolVarP(&options.DebugMode, "debug", "g", false, "print more debug info")
	rootCmd.PersistentFlags().StringVarP(&options.LogFile, "log_file", "", options.LogFile, "log file path")
	rootCmd.PersistentFlags().StringVarP(&options.LogLevel, "log_level", "", options.LogLevel, "log level")
	rootCmd.PersistentFlags().Int64VarP(&options.LogMaxDays, "log_max_days", "", options.LogMaxDays, "log file reserved max days")
}

var rootCmd = &cobra.Command{
	Use:   "pktgen",
	Short: "pktgen encodes buffers into start/data/stop frame trains",
	RunE: func(cmd *cobra.Command, args []string) error {
		// flags parsed fine, runtime errors are reported below without usage
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true

		if showVersion {
			fmt.Println(version.Full())
			return nil
		}

		opts := options
		if configFile != "" {
			var err error
			opts, err = loadConfig(configFile, options, cmd.Flags().Changed)
			if err != nil {
				fmt.Fprintf(os.Stderr, "load config error: %v\n", err)
				return err
			}
		}

		logway := "file"
		if opts.LogFile == "console" {
			logway = "console"
		}
		log.InitLog(logway, opts.LogFile, opts.LogLevel, opts.LogMaxDays)

		svc, err := client.NewService(opts, client.Streams{
			In:     os.Stdin,
			Stdout: os.Stdout,
			Stderr: os.Stderr,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "new pktgen service error: %v\n", err)
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err = svc.Connect(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "pktgen connect error: %v\n", err)
			return err
		}
		defer svc.Close()

		if err = svc.Run(ctx); err != nil {
			if !errors.Is(err, context.Canceled) {
				fmt.Fprintf(os.Stderr, "pktgen run error: %v\n", err)
			}
			return err
		}
		return nil
	},
}
