package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"feedkeeper/cmd/client/cmd/types"
)

var registerLogin string

var RegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Зарегистрировать нового пользователя",
	Long: `Регистрация нового пользователя на сервере FeedKeeper.

После регистрации войдите командой feedkeeper auth login.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		p := types.Printer(cmd)

		login := registerLogin
		if login == "" {
			if login, err = readLine("Логин: "); err != nil {
				return err
			}
		}

		password, err := readPassword("Пароль: ")
		if err != nil {
			return err
		}
		confirm, err := readPassword("Повторите пароль: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("пароли не совпадают")
		}

		if err := app.Register(cmd.Context(), login, password); err != nil {
			return fmt.Errorf("ошибка регистрации: %w", err)
		}

		p.Success("Пользователь %s зарегистрирован", login)
		p.Print("Теперь войдите в систему: feedkeeper auth login")
		return nil
	},
}

func init() {
	RegisterCmd.Flags().StringVarP(&registerLogin, "login", "l", "", "логин пользователя")
}
