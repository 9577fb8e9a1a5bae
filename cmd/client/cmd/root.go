package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"feedkeeper/cmd/client/cmd/article"
	"feedkeeper/cmd/client/cmd/auth"
	"feedkeeper/cmd/client/cmd/source"
	"feedkeeper/cmd/client/cmd/sync"
	"feedkeeper/cmd/client/cmd/theme"
	"feedkeeper/cmd/client/cmd/types"
	"feedkeeper/internal/app/client"
	"feedkeeper/internal/app/client/config"
	"feedkeeper/internal/utils/logger"
	"feedkeeper/internal/utils/output"
)

var (
	cfgFile    string
	jsonOutput bool
	serverURL  string
	offline    bool
	debug      bool

	app       *client.App
	logWriter io.WriteCloser
)

var rootCmd = &cobra.Command{
	Use:   "feedkeeper",
	Short: "FeedKeeper - офлайн-клиент агрегатора новостей",
	Long: `FeedKeeper хранит источники, темы и статьи локально и
синхронизирует их с сервером, когда появляется связь.

Изменения, сделанные без сети, попадают в очередь и отправляются
на сервер при следующей синхронизации.`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: closeApp,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		types.Printer(rootCmd).Error("Ошибка: %v", err)
		_ = closeApp(rootCmd, nil)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("ошибка чтения конфигурационного файла: %w", err)
		}
	}
	if serverURL != "" {
		viper.Set("SERVER_ADDRESS", serverURL)
	}
	if offline {
		viper.Set("OFFLINE", true)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	var w io.Writer = io.Discard
	if cfg.LogFile != "" {
		logWriter = logger.NewRotatingWriter(cfg.LogFile)
		w = logWriter
	} else if debug {
		w = os.Stderr
	}

	log, err := logger.NewWithLevel(cfg.Env, cfg.LogLevel, w)
	if err != nil {
		return fmt.Errorf("ошибка настройки логгера: %w", err)
	}

	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	ctx := context.WithValue(cmd.Context(), types.ClientAppKey, app)
	ctx = context.WithValue(ctx, types.PrinterKey, output.NewPrinter(jsonOutput))
	cmd.SetContext(ctx)

	if !cfg.Offline {
		app.CheckConnection(ctx)
	}
	return nil
}

func closeApp(_ *cobra.Command, _ []string) error {
	if app != nil {
		if err := app.Close(); err != nil {
			return fmt.Errorf("ошибка закрытия хранилища: %w", err)
		}
		app = nil
	}
	if logWriter != nil {
		_ = logWriter.Close()
		logWriter = nil
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "конфигурационный файл")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "вывод в формате JSON")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "адрес сервера (host:port)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "писать журнал в stderr")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "работать без обращения к серверу")

	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(source.SourceCmd)
	rootCmd.AddCommand(theme.ThemeCmd)
	rootCmd.AddCommand(article.ArticleCmd)
	rootCmd.AddCommand(sync.SyncCmd)
	rootCmd.AddCommand(watchCmd)
}
