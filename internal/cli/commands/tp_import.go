package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Saumajitt/grc-dashboard/internal/cli/api"
	"github.com/Saumajitt/grc-dashboard/internal/config"
)

type tpImportCmd struct{}

func (tpImportCmd) Name() string        { return "tp-import" }
func (tpImportCmd) Description() string { return "Bulk-import third parties from a CSV (admin)" }
func (tpImportCmd) Usage() string       { return "tp-import <csv-file>" }

func (tpImportCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return ErrUsage
	}
	token, err := loadToken(cfg)
	if err != nil {
		return err
	}

	files := []api.FilePart{{Field: "file", Path: args[0]}}
	resp, body, err := api.PostMultipart(endpoint(cfg, "/thirdparties/upload"), nil, files, token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("server: %s", api.ServerMessage(body))
	}

	var out struct {
		SuccessCount int `json:"successCount"`
		FailureCount int `json:"failureCount"`
		Errors       []struct {
			Error string `json:"error"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	fmt.Fprintf(Out, "Imported %d, rejected %d\n", out.SuccessCount, out.FailureCount)
	for i, e := range out.Errors {
		fmt.Fprintf(Out, "  row %d: %s\n", i+1, e.Error)
	}
	return nil
}

func init() { RegisterCmd(tpImportCmd{}) }
