package theme

import (
	"fmt"

	"github.com/spf13/cobra"

	"feedkeeper/cmd/client/cmd/types"
	"feedkeeper/internal/utils/output"
)

// ThemeCmd - родительская команда для операций с темами
var ThemeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Управление темами",
	Long:  `Темы группируют источники. Один источник может входить в несколько тем.`,
}

var (
	themeColor string
	themeName  string
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Создать тему",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, id, err := types.AuthedApp(cmd)
		if err != nil {
			return err
		}
		p := types.Printer(cmd)

		theme, err := app.Gateway().AddTheme(cmd.Context(), id, args[0], themeColor)
		if err != nil {
			return fmt.Errorf("ошибка создания темы: %w", err)
		}
		if p.JSON() {
			return p.Emit(theme)
		}
		p.Success("Тема %q создана (%s)", theme.Name, theme.ID)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Список тем",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		p := types.Printer(cmd)

		themes, err := app.Storage().Themes(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка получения тем: %w", err)
		}
		links, err := app.Storage().SourceThemes(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка получения связей: %w", err)
		}
		if p.JSON() {
			return p.Emit(map[string]any{"themes": themes, "links": links})
		}
		if len(themes) == 0 {
			p.Print("Темы не найдены")
			return nil
		}

		sources := make(map[string]int, len(themes))
		for _, l := range links {
			sources[l.ThemeID]++
		}

		table := output.NewTable(p.Out(), "ID", "Название", "Цвет", "Источников")
		for _, t := range themes {
			table.AddRow(t.ID, t.Name, t.Color, fmt.Sprint(sources[t.ID]))
		}
		table.Render()
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Изменить название или цвет темы",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if themeName == "" && themeColor == "" {
			return fmt.Errorf("укажите --name или --color")
		}
		app, id, err := types.AuthedApp(cmd)
		if err != nil {
			return err
		}

		theme, err := app.Gateway().UpdateTheme(cmd.Context(), id, args[0], themeName, themeColor)
		if err != nil {
			return fmt.Errorf("ошибка обновления темы: %w", err)
		}
		types.Printer(cmd).Success("Тема обновлена: %s", theme.Name)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Удалить тему",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, id, err := types.AuthedApp(cmd)
		if err != nil {
			return err
		}

		if err := app.Gateway().DeleteTheme(cmd.Context(), id, args[0]); err != nil {
			return fmt.Errorf("ошибка удаления темы: %w", err)
		}
		types.Printer(cmd).Success("Тема %s удалена", args[0])
		return nil
	},
}

var assignCmd = &cobra.Command{
	Use:   "assign <source-id> <theme-id>",
	Short: "Привязать тему к источнику",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, id, err := types.AuthedApp(cmd)
		if err != nil {
			return err
		}

		if err := app.Gateway().AssignTheme(cmd.Context(), id, args[0], args[1]); err != nil {
			return fmt.Errorf("ошибка привязки темы: %w", err)
		}
		types.Printer(cmd).Success("Тема привязана к источнику")
		return nil
	},
}

var unassignCmd = &cobra.Command{
	Use:   "unassign <source-id> <theme-id>",
	Short: "Отвязать тему от источника",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, id, err := types.AuthedApp(cmd)
		if err != nil {
			return err
		}

		if err := app.Gateway().UnassignTheme(cmd.Context(), id, args[0], args[1]); err != nil {
			return fmt.Errorf("ошибка отвязки темы: %w", err)
		}
		types.Printer(cmd).Success("Тема отвязана от источника")
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&themeColor, "color", "c", "", "цвет темы, например #ff8800")
	updateCmd.Flags().StringVarP(&themeName, "name", "n", "", "новое название")
	updateCmd.Flags().StringVarP(&themeColor, "color", "c", "", "новый цвет")

	ThemeCmd.AddCommand(addCmd)
	ThemeCmd.AddCommand(listCmd)
	ThemeCmd.AddCommand(updateCmd)
	ThemeCmd.AddCommand(deleteCmd)
	ThemeCmd.AddCommand(assignCmd)
	ThemeCmd.AddCommand(unassignCmd)
}
