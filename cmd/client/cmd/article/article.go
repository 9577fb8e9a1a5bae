package article

import (
	"fmt"

	"github.com/spf13/cobra"

	"feedkeeper/cmd/client/cmd/types"
	"feedkeeper/internal/app/client"
	"feedkeeper/internal/utils/output"
)

// ArticleCmd - родительская команда для чтения статей и отметок
var ArticleCmd = &cobra.Command{
	Use:   "article",
	Short: "Статьи и пользовательские отметки",
}

var filter client.ArticleFilter

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Список статей",
	Long: `Показывает статьи из локального хранилища.
При наличии связи окно статей предварительно обновляется с сервера.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, id, err := types.AuthedApp(cmd)
		if err != nil {
			return err
		}
		p := types.Printer(cmd)

		articles, refreshed, err := app.Reader().Articles(cmd.Context(), id, filter)
		if err != nil {
			return fmt.Errorf("ошибка получения статей: %w", err)
		}
		if p.JSON() {
			return p.Emit(articles)
		}
		if !refreshed {
			p.Warning("Показаны локальные данные")
		}
		if len(articles) == 0 {
			p.Print("Статьи не найдены")
			return nil
		}

		table := output.NewTable(p.Out(), "ID", "", "", "Заголовок", "Опубликовано")
		for _, a := range articles {
			published := ""
			if a.PublishedAt != nil {
				published = a.PublishedAt.Local().Format("2006-01-02 15:04")
			}
			table.AddRow(a.ID, p.Mark(a.IsFavorite, "★"), p.Mark(!a.IsRead, "•"), a.Title, published)
		}
		table.Render()
		return nil
	},
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite <article-id>",
	Short: "Переключить отметку избранного",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, id, err := types.AuthedApp(cmd)
		if err != nil {
			return err
		}
		p := types.Printer(cmd)

		on, err := app.Gateway().ToggleFavorite(cmd.Context(), id, args[0])
		if err != nil {
			return fmt.Errorf("ошибка изменения избранного: %w", err)
		}
		if on {
			p.Success("Статья добавлена в избранное")
		} else {
			p.Success("Статья убрана из избранного")
		}
		return nil
	},
}

var unfavoriteCmd = &cobra.Command{
	Use:   "unfavorite <article-id>",
	Short: "Убрать статью из избранного",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, id, err := types.AuthedApp(cmd)
		if err != nil {
			return err
		}

		changed, err := app.Gateway().RemoveFavorite(cmd.Context(), id, args[0])
		if err != nil {
			return fmt.Errorf("ошибка изменения избранного: %w", err)
		}
		report(types.Printer(cmd), changed, "Статья убрана из избранного", "Статьи не было в избранном")
		return nil
	},
}

var readCmd = &cobra.Command{
	Use:   "read <article-id>",
	Short: "Отметить статью прочитанной",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, id, err := types.AuthedApp(cmd)
		if err != nil {
			return err
		}

		changed, err := app.Gateway().MarkRead(cmd.Context(), id, args[0])
		if err != nil {
			return fmt.Errorf("ошибка отметки прочтения: %w", err)
		}
		report(types.Printer(cmd), changed, "Статья отмечена прочитанной", "Статья уже прочитана")
		return nil
	},
}

var unreadCmd = &cobra.Command{
	Use:   "unread <article-id>",
	Short: "Снять отметку прочтения",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, id, err := types.AuthedApp(cmd)
		if err != nil {
			return err
		}

		changed, err := app.Gateway().MarkUnread(cmd.Context(), id, args[0])
		if err != nil {
			return fmt.Errorf("ошибка снятия отметки: %w", err)
		}
		report(types.Printer(cmd), changed, "Статья отмечена непрочитанной", "Статья и так не прочитана")
		return nil
	},
}

func report(p *output.Printer, changed bool, done, noop string) {
	if changed {
		p.Success("%s", done)
		return
	}
	p.Info("%s", noop)
}

func init() {
	listCmd.Flags().StringVar(&filter.SourceID, "source", "", "только статьи источника")
	listCmd.Flags().StringVar(&filter.ThemeID, "theme", "", "только статьи источников темы")
	listCmd.Flags().BoolVar(&filter.OnlyFavorites, "favorites", false, "только избранное")
	listCmd.Flags().BoolVar(&filter.OnlyUnread, "unread", false, "только непрочитанные")
	listCmd.Flags().IntVarP(&filter.Limit, "limit", "n", 50, "сколько статей показать")
	listCmd.Flags().IntVar(&filter.Offset, "offset", 0, "смещение")

	ArticleCmd.AddCommand(listCmd)
	ArticleCmd.AddCommand(favoriteCmd)
	ArticleCmd.AddCommand(unfavoriteCmd)
	ArticleCmd.AddCommand(readCmd)
	ArticleCmd.AddCommand(unreadCmd)
}
