package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"feedkeeper/cmd/client/cmd/types"
	"feedkeeper/internal/app/client"
)

var (
	loginName string
	noSync    bool
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти в систему FeedKeeper",
	Long: `Аутентификация на сервере FeedKeeper.

Токен сохраняется локально, после входа выполняется полная синхронизация.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		p := types.Printer(cmd)

		login := loginName
		if login == "" {
			if login, err = readLine("Логин: "); err != nil {
				return err
			}
		}
		password, err := readPassword("Пароль: ")
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		id, err := app.Login(ctx, login, password)
		if err != nil {
			return fmt.Errorf("ошибка аутентификации: %w", err)
		}
		p.Success("Вход выполнен: %s", id.Login)

		if noSync {
			return nil
		}

		p.Info("Синхронизация данных...")
		result, err := app.Sync().FullSync(ctx, id)
		switch {
		case errors.Is(err, client.ErrSyncDisabled):
			p.Warning("Синхронизация отключена, данные будут загружены позже")
		case err != nil:
			p.Warning("Ошибка синхронизации: %v", err)
			p.Print("Вы можете продолжить работу в офлайн-режиме")
		case !result.Success:
			p.Warning("Синхронизация завершена с ошибками (%d)", len(result.Errors))
		default:
			p.Success("Данные синхронизированы: источников %d, статей %d", result.SourcesCount, result.ArticlesCount)
		}
		return nil
	},
}

func init() {
	LoginCmd.Flags().StringVarP(&loginName, "login", "l", "", "логин пользователя")
	LoginCmd.Flags().BoolVar(&noSync, "no-sync", false, "не синхронизировать после входа")
}
