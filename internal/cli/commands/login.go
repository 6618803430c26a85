package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Saumajitt/grc-dashboard/internal/cli/api"
	"github.com/Saumajitt/grc-dashboard/internal/config"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Login and store the bearer token" }
func (loginCmd) Usage() string       { return "login <email> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	req := LoginRequest{Email: args[0], Password: args[1]}

	resp, body, err := api.PostJSON(endpoint(cfg, "/users/login"), req, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server: %s", api.ServerMessage(body))
	}

	var out struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if out.Token == "" {
		return errors.New("no token in response")
	}
	if err := tokenStore(cfg).Save(out.Token); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}
	fmt.Fprintf(Out, "Logged in as %s (%s)\n", args[0], out.Role)
	return nil
}

func init() { RegisterCmd(loginCmd{}) }
