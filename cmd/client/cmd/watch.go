package cmd

import (
	"github.com/spf13/cobra"

	"feedkeeper/cmd/client/cmd/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Следить за сетью и синхронизировать в фоне",
	Long: `Запускает мониторинг соединения и периодическую синхронизацию.
При восстановлении связи очередь изменений отправляется сразу.
Работает до Ctrl+C.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		p := types.Printer(cmd)

		if !app.IsAuthenticated() {
			p.Warning("Вход не выполнен, синхронизация начнётся после feedkeeper auth login")
		}
		p.Info("Наблюдение запущено, Ctrl+C для выхода")

		if err := app.Run(cmd.Context()); err != nil {
			return err
		}
		p.Info("Наблюдение остановлено")
		return nil
	},
}
