package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Saumajitt/grc-dashboard/internal/cli/api"
	"github.com/Saumajitt/grc-dashboard/internal/config"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Register a new user (role: client|admin)" }
func (registerCmd) Usage() string       { return "register <email> <password> [role]" }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	req := RegisterRequest{Email: args[0], Password: args[1]}
	if len(args) > 2 {
		req.Role = args[2]
	}

	resp, body, err := api.PostJSON(endpoint(cfg, "/users/register"), req, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("server: %s", api.ServerMessage(body))
	}

	var out struct {
		ID int64 `json:"id"`
	}
	_ = json.Unmarshal(body, &out)
	fmt.Fprintf(Out, "Registered user #%d\n", out.ID)
	return nil
}

func init() { RegisterCmd(registerCmd{}) }
