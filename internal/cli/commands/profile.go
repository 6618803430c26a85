package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Saumajitt/grc-dashboard/internal/cli/api"
	"github.com/Saumajitt/grc-dashboard/internal/config"
)

type profileCmd struct{}

func (profileCmd) Name() string        { return "profile" }
func (profileCmd) Description() string { return "Show the role-aware profile summary" }
func (profileCmd) Usage() string       { return "profile" }

func (profileCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	token, err := loadToken(cfg)
	if err != nil {
		return err
	}

	resp, body, err := api.GetJSON(endpoint(cfg, "/users/profile"), token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server: %s", api.ServerMessage(body))
	}

	var out struct {
		User struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
		Stats struct {
			EvidenceCount   int `json:"evidenceCount"`
			ThirdPartyCount int `json:"thirdPartyCount"`
			ClientCount     int `json:"clientCount"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	fmt.Fprintf(Out, "%s (%s)\n", out.User.Email, out.User.Role)
	fmt.Fprintf(Out, "  evidence:      %d\n", out.Stats.EvidenceCount)
	fmt.Fprintf(Out, "  third parties: %d\n", out.Stats.ThirdPartyCount)
	fmt.Fprintf(Out, "  clients:       %d\n", out.Stats.ClientCount)
	return nil
}

func init() { RegisterCmd(profileCmd{}) }
