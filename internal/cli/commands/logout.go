package commands

import (
	"context"
	"fmt"

	"github.com/Saumajitt/grc-dashboard/internal/cli/api"
	"github.com/Saumajitt/grc-dashboard/internal/config"
)

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Discard the stored bearer token" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	// Сервер сессий не хранит; уведомляем его best-effort и чистим локальный токен.
	if token, err := loadToken(cfg); err == nil {
		if resp, _, err := api.PostJSON(endpoint(cfg, "/users/logout"), struct{}{}, token); err == nil {
			resp.Body.Close()
		}
	}
	if err := tokenStore(cfg).Clear(); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

func init() { RegisterCmd(logoutCmd{}) }
