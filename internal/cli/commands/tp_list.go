package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Saumajitt/grc-dashboard/internal/cli/api"
	"github.com/Saumajitt/grc-dashboard/internal/config"
)

type tpListCmd struct{}

func (tpListCmd) Name() string        { return "tp-list" }
func (tpListCmd) Description() string { return "List third parties (admin)" }
func (tpListCmd) Usage() string       { return "tp-list [page] [limit] [industry] [name]" }

func (tpListCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	token, err := loadToken(cfg)
	if err != nil {
		return err
	}

	q := url.Values{}
	if len(args) > 0 {
		q.Set("page", args[0])
	}
	if len(args) > 1 {
		q.Set("limit", args[1])
	}
	if len(args) > 2 {
		q.Set("industry", args[2])
	}
	if len(args) > 3 {
		q.Set("name", args[3])
	}
	u := endpoint(cfg, "/thirdparties")
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	resp, body, err := api.GetJSON(u, token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server: %s", api.ServerMessage(body))
	}

	var out struct {
		Page         int   `json:"page"`
		TotalPages   int   `json:"totalPages"`
		Total        int64 `json:"total"`
		ThirdParties []struct {
			ID        string  `json:"id"`
			Name      string  `json:"name"`
			Industry  string  `json:"industry"`
			RiskScore float64 `json:"riskScore"`
		} `json:"thirdParties"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	fmt.Fprintf(Out, "Page %d/%d, total %d\n", out.Page, out.TotalPages, out.Total)
	for _, tp := range out.ThirdParties {
		fmt.Fprintf(Out, "  %s %-24s %-16s risk %.1f\n", tp.ID, tp.Name, tp.Industry, tp.RiskScore)
	}
	return nil
}

func init() { RegisterCmd(tpListCmd{}) }
