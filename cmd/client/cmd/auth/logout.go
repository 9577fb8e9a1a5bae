package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"feedkeeper/cmd/client/cmd/types"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти и очистить локальные данные",
	Long: `Удаляет сохранённый токен и локальное зеркало данных.

Неотправленные изменения из очереди будут потеряны.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		p := types.Printer(cmd)

		dropped, err := app.Logout(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка выхода: %w", err)
		}
		if dropped > 0 {
			p.Warning("Удалено неотправленных изменений: %d", dropped)
		}
		p.Success("Выход выполнен")
		return nil
	},
}

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Показать текущего пользователя",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		p := types.Printer(cmd)
		id := app.Identity()

		if p.JSON() {
			return p.Emit(map[string]any{
				"authenticated": id.Valid(),
				"user_id":       id.UserID,
				"login":         id.Login,
				"online":        app.Network().IsOnline(),
			})
		}

		if !id.Valid() {
			p.Warning("Вход не выполнен")
			return nil
		}
		p.Print("Пользователь: %s (%s)", id.Login, id.UserID)
		p.Print("Сервер: %s, в сети: %t", app.Config().ServerAddress, app.Network().IsOnline())
		return nil
	},
}
