package types

import (
	"fmt"

	"github.com/spf13/cobra"

	"feedkeeper/internal/app/client"
	"feedkeeper/internal/utils/output"
)

type ctxKey string

const (
	ClientAppKey ctxKey = "app"
	PrinterKey   ctxKey = "printer"
)

// App достаёт клиентское приложение из контекста команды
func App(cmd *cobra.Command) (*client.App, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, fmt.Errorf("приложение не инициализировано")
	}
	app, ok := ctx.Value(ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("приложение не инициализировано")
	}
	return app, nil
}

// AuthedApp как App, но дополнительно требует выполненного входа
func AuthedApp(cmd *cobra.Command) (*client.App, client.Identity, error) {
	app, err := App(cmd)
	if err != nil {
		return nil, client.Identity{}, err
	}
	id := app.Identity()
	if !id.Valid() {
		return nil, client.Identity{}, fmt.Errorf("%w: выполните feedkeeper auth login", client.ErrNotAuthenticated)
	}
	return app, id, nil
}

func Printer(cmd *cobra.Command) *output.Printer {
	if ctx := cmd.Context(); ctx != nil {
		if p, ok := ctx.Value(PrinterKey).(*output.Printer); ok && p != nil {
			return p
		}
	}
	return output.NewPrinter(false)
}
