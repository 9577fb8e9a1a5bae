package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"feedkeeper/cmd/client/cmd/types"
	"feedkeeper/internal/app/client"
	"feedkeeper/internal/utils/output"
)

var (
	pushOnly   bool
	pullOnly   bool
	syncStatus bool
	showQueue  bool
	resetStats bool
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Управление синхронизацией",
	Long: `Синхронизация локальных данных с сервером.

Без флагов сначала отправляет очередь изменений, затем загружает
свежие данные. Флаги --push и --pull выполняют только один шаг.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		p := types.Printer(cmd)

		switch {
		case syncStatus:
			return showSyncStatus(cmd.Context(), app, p)
		case showQueue:
			return showSyncQueue(cmd.Context(), app, p)
		case resetStats:
			app.Sync().ResetStats()
			p.Success("Статистика синхронизации сброшена")
			return nil
		}

		id := app.Identity()
		if !id.Valid() {
			return fmt.Errorf("%w: выполните feedkeeper auth login", client.ErrNotAuthenticated)
		}
		if !app.Network().IsOnline() {
			return fmt.Errorf("сервер %s недоступен, изменения остаются в очереди", app.Config().ServerAddress)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		switch {
		case pushOnly:
			return runPush(ctx, app, id, p)
		case pullOnly:
			result, err := app.Sync().Pull(ctx, id)
			if err != nil {
				return fmt.Errorf("ошибка загрузки: %w", err)
			}
			return printPull(p, result)
		default:
			return runFull(ctx, app, id, p)
		}
	},
}

func runPush(ctx context.Context, app *client.App, id client.Identity, p *output.Printer) error {
	result, err := app.Sync().Push(ctx, id)
	if err != nil {
		return fmt.Errorf("ошибка отправки очереди: %w", err)
	}
	if p.JSON() {
		return p.Emit(result)
	}
	p.Success("Отправлено: %d, с ошибкой: %d", result.Processed, result.Failed)
	return nil
}

func runFull(ctx context.Context, app *client.App, id client.Identity, p *output.Printer) error {
	start := time.Now()
	result, err := app.Sync().FullSync(ctx, id)
	switch {
	case errors.Is(err, client.ErrSyncDisabled):
		p.Warning("Синхронизация отключена в настройках")
		return nil
	case err != nil:
		return fmt.Errorf("ошибка синхронизации: %w", err)
	}

	if err := printPull(p, result); err != nil {
		return err
	}
	p.Print("Время выполнения: %v", time.Since(start).Round(time.Millisecond))
	return nil
}

func printPull(p *output.Printer, result *client.PullResult) error {
	if p.JSON() {
		return p.Emit(result)
	}

	if result.Success {
		p.Success("Синхронизация завершена")
	} else {
		p.Warning("Синхронизация завершена с ошибками")
	}

	table := output.NewTable(p.Out(), "Данные", "Загружено")
	table.AddRow("Источники", fmt.Sprint(result.SourcesCount))
	table.AddRow("Темы", fmt.Sprint(result.ThemesCount))
	table.AddRow("Связи", fmt.Sprint(result.LinksCount))
	table.AddRow("Статьи", fmt.Sprint(result.ArticlesCount))
	table.AddRow("Избранное", fmt.Sprint(result.FavoritesCount))
	table.AddRow("Прочитанное", fmt.Sprint(result.ReadMarksCount))
	table.Render()

	for _, e := range result.Errors {
		p.Warning("%s", e)
	}
	return nil
}

func showSyncStatus(ctx context.Context, app *client.App, p *output.Printer) error {
	stats := app.Sync().Stats()
	counts, err := app.Storage().Counts(ctx)
	if err != nil {
		return fmt.Errorf("ошибка подсчёта локальных данных: %w", err)
	}
	cfg := app.Sync().Config()

	if p.JSON() {
		return p.Emit(map[string]any{
			"online":    app.Network().IsOnline(),
			"syncing":   app.Sync().IsSyncing(),
			"last_sync": app.Sync().LastSyncTime(),
			"stats":     stats,
			"counts":    counts,
			"config":    cfg,
		})
	}

	p.Header("Статистика")
	p.Print("Всего синхронизаций: %d, с ошибками: %d", stats.TotalSyncs, stats.TotalErrors)
	p.Print("Отправлено: %d, не отправлено: %d, загружено: %d", stats.TotalPushed, stats.TotalPushFailed, stats.TotalPulled)
	p.Print("Среднее время: %.2f сек", stats.AvgSyncDuration)
	if !stats.LastSuccessful.IsZero() {
		p.Print("Последняя успешная: %s", stats.LastSuccessful.Local().Format(time.DateTime))
	}
	if !stats.LastFailed.IsZero() {
		p.Print("Последняя неудачная: %s", stats.LastFailed.Local().Format(time.DateTime))
	}

	p.Header("Локальные данные")
	table := output.NewTable(p.Out(), "Таблица", "Строк")
	table.AddRow("sources", fmt.Sprint(counts.Sources))
	table.AddRow("themes", fmt.Sprint(counts.Themes))
	table.AddRow("source_themes", fmt.Sprint(counts.Links))
	table.AddRow("articles", fmt.Sprint(counts.Articles))
	table.AddRow("favorites", fmt.Sprint(counts.Favorites))
	table.AddRow("read_articles", fmt.Sprint(counts.ReadMarks))
	table.AddRow("sync_queue", fmt.Sprint(counts.Queue))
	table.Render()

	p.Header("Настройки")
	p.Print("Включена: %t, интервал: %v, попыток: %d", cfg.Enabled, cfg.Interval, cfg.MaxRetries)
	if app.Network().IsOnline() {
		p.Success("Сервер %s доступен", app.Config().ServerAddress)
	} else {
		p.Warning("Сервер %s недоступен", app.Config().ServerAddress)
	}
	return nil
}

func showSyncQueue(ctx context.Context, app *client.App, p *output.Printer) error {
	entries, err := app.Storage().DequeueAll(ctx)
	if err != nil {
		return fmt.Errorf("ошибка чтения очереди: %w", err)
	}
	if p.JSON() {
		return p.Emit(entries)
	}
	if len(entries) == 0 {
		p.Print("Очередь пуста")
		return nil
	}

	table := output.NewTable(p.Out(), "ID", "Действие", "Таблица", "Запись", "Попыток", "Ошибка")
	for _, e := range entries {
		lastErr := ""
		if e.LastError != nil {
			lastErr = *e.LastError
		}
		table.AddRow(fmt.Sprint(e.ID), string(e.Action), e.TableName, e.RecordID, fmt.Sprint(e.RetryCount), lastErr)
	}
	table.Render()
	return nil
}

func init() {
	SyncCmd.Flags().BoolVar(&pushOnly, "push", false, "только отправить очередь")
	SyncCmd.Flags().BoolVar(&pullOnly, "pull", false, "только загрузить данные с сервера")
	SyncCmd.Flags().BoolVar(&syncStatus, "status", false, "показать статус синхронизации")
	SyncCmd.Flags().BoolVar(&showQueue, "queue", false, "показать очередь изменений")
	SyncCmd.Flags().BoolVar(&resetStats, "reset", false, "сбросить статистику")
	SyncCmd.MarkFlagsMutuallyExclusive("push", "pull", "status", "queue", "reset")
}
