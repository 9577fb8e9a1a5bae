package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"feedkeeper/cmd/client/cmd/types"
	"feedkeeper/internal/app/client"
	"feedkeeper/internal/domain/news"
	"feedkeeper/internal/utils/output"
)

// SourceCmd - родительская команда для операций с источниками
var SourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Управление источниками",
	Long:  `Добавление, просмотр, переименование и удаление источников контента.`,
}

var sourceType string

var addCmd = &cobra.Command{
	Use:   "add <url> [name]",
	Short: "Добавить источник",
	Long: `Добавляет источник локально и отправляет его на сервер.
Без связи изменение попадает в очередь синхронизации.

Типы источников: feed (по умолчанию), page, video-channel.
Без имени источник называется по URL.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, id, err := types.AuthedApp(cmd)
		if err != nil {
			return err
		}
		p := types.Printer(cmd)

		name := ""
		if len(args) > 1 {
			name = args[1]
		}

		src, err := app.Gateway().AddSource(cmd.Context(), id, args[0], name, sourceType)
		if err != nil {
			return fmt.Errorf("ошибка добавления источника: %w", err)
		}
		if p.JSON() {
			return p.Emit(src)
		}
		p.Success("Источник %q добавлен (%s)", src.Name, src.ID)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Список источников",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		p := types.Printer(cmd)

		sources, err := app.Storage().Sources(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка получения источников: %w", err)
		}
		if p.JSON() {
			return p.Emit(sources)
		}
		if len(sources) == 0 {
			p.Print("Источники не найдены")
			return nil
		}

		labels, err := themeLabels(cmd.Context(), app.Storage(), sources)
		if err != nil {
			return err
		}

		table := output.NewTable(p.Out(), "ID", "Название", "Тип", "Статус", "Темы", "URL")
		for _, s := range sources {
			table.AddRow(s.ID, s.Name, string(s.Type), p.Status(string(s.Status)), labels[s.ID], s.URL)
		}
		table.Render()
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Переименовать источник",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, id, err := types.AuthedApp(cmd)
		if err != nil {
			return err
		}

		src, err := app.Gateway().RenameSource(cmd.Context(), id, args[0], args[1])
		if err != nil {
			return fmt.Errorf("ошибка переименования источника: %w", err)
		}
		types.Printer(cmd).Success("Источник переименован: %s", src.Name)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Удалить источник вместе с его статьями",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, id, err := types.AuthedApp(cmd)
		if err != nil {
			return err
		}

		if err := app.Gateway().DeleteSource(cmd.Context(), id, args[0]); err != nil {
			return fmt.Errorf("ошибка удаления источника: %w", err)
		}
		types.Printer(cmd).Success("Источник %s удалён", args[0])
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&sourceType, "type", "t", "", "тип источника (feed, page, video-channel)")

	SourceCmd.AddCommand(addCmd)
	SourceCmd.AddCommand(listCmd)
	SourceCmd.AddCommand(renameCmd)
	SourceCmd.AddCommand(deleteCmd)
}

// themeLabels названия тем каждого источника через запятую
func themeLabels(ctx context.Context, store *client.SQLiteStorage, sources []news.Source) (map[string]string, error) {
	themes, err := store.Themes(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(themes))
	for _, t := range themes {
		names[t.ID] = t.Name
	}

	labels := make(map[string]string, len(sources))
	for _, src := range sources {
		ids, err := store.ThemeIDsForSource(ctx, src.ID)
		if err != nil {
			return nil, err
		}
		parts := make([]string, 0, len(ids))
		for _, id := range ids {
			if name, ok := names[id]; ok {
				parts = append(parts, name)
			}
		}
		labels[src.ID] = strings.Join(parts, ", ")
	}
	return labels, nil
}
