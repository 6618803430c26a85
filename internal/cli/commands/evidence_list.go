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

type evidenceListCmd struct{}

func (evidenceListCmd) Name() string        { return "evidence-list" }
func (evidenceListCmd) Description() string { return "List your evidence, newest first" }
func (evidenceListCmd) Usage() string       { return "evidence-list [page] [limit] [category]" }

func (evidenceListCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
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
		q.Set("category", args[2])
	}
	u := endpoint(cfg, "/evidence")
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
		Page       int   `json:"page"`
		TotalPages int   `json:"totalPages"`
		Total      int64 `json:"total"`
		Evidences  []struct {
			ID       string `json:"id"`
			Title    string `json:"title"`
			Category string `json:"category"`
			Size     int64  `json:"size"`
			FileURL  string `json:"fileUrl"`
		} `json:"evidences"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	fmt.Fprintf(Out, "Page %d/%d, total %d\n", out.Page, out.TotalPages, out.Total)
	for _, ev := range out.Evidences {
		fmt.Fprintf(Out, "  %s [%s] %s (%d bytes)\n", ev.ID, ev.Category, ev.Title, ev.Size)
	}
	return nil
}

func init() { RegisterCmd(evidenceListCmd{}) }
