package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tanq16/ytfetch/internal/config"
	"github.com/tanq16/ytfetch/internal/output"
	"github.com/tanq16/ytfetch/internal/utils"
)

var (
	cfgFile   string
	appConfig config.Config
	v         = viper.New()
)

var YtfetchVersion = "dev"

var rootCmd = &cobra.Command{
	Use:     "ytfetch [URL]",
	Short:   "ytfetch downloads YouTube videos, audio or merged streams through yt-dlp",
	Version: YtfetchVersion,
	Args:    cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		appConfig = cfg
		utils.InitLogger(cfg.Debug)
		log.Debug().Str("op", "cmd/root").Msgf("Output directory: %s", cfg.OutputDir)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		url := ""
		if len(args) > 0 {
			url = args[0]
		}
		ctx, stop := signalContext()
		defer stop()
		if err := runInteractive(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), url); err != nil {
			output.PrintError(err.Error())
			os.Exit(1)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default $XDG_CONFIG_HOME/ytfetch/config.yaml)")
	rootCmd.PersistentFlags().StringP("output-dir", "o", "", "Directory downloads are written to (default ~/Downloads/Youtube Downloads)")
	rootCmd.PersistentFlags().String("ytdlp", "", "Path to the yt-dlp executable (default: search PATH)")
	rootCmd.PersistentFlags().String("ffmpeg", "", "Path to ffmpeg, used for merging and subtitles (default: search PATH)")
	rootCmd.PersistentFlags().String("sub-lang", utils.DefaultSubLang, "Subtitle language embedded into video downloads")
	rootCmd.PersistentFlags().DurationP("timeout", "t", 0, "Abort yt-dlp after this long (eg. 30m); 0 disables")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	_ = v.BindPFlag(config.KeyOutputDir, rootCmd.PersistentFlags().Lookup("output-dir"))
	_ = v.BindPFlag(config.KeyYtdlpPath, rootCmd.PersistentFlags().Lookup("ytdlp"))
	_ = v.BindPFlag(config.KeyFFmpegPath, rootCmd.PersistentFlags().Lookup("ffmpeg"))
	_ = v.BindPFlag(config.KeySubLang, rootCmd.PersistentFlags().Lookup("sub-lang"))
	_ = v.BindPFlag(config.KeyTimeout, rootCmd.PersistentFlags().Lookup("timeout"))
	_ = v.BindPFlag(config.KeyDebug, rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.AddCommand(newVideoCmd())
	rootCmd.AddCommand(newAudioCmd())
	rootCmd.AddCommand(newMergeCmd())
	rootCmd.AddCommand(newInfoCmd())
	rootCmd.AddCommand(newFormatsCmd())
}
