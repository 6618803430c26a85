package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Saumajitt/grc-dashboard/internal/cli/api"
	"github.com/Saumajitt/grc-dashboard/internal/config"
)

type evidenceUploadCmd struct{}

func (evidenceUploadCmd) Name() string        { return "evidence-upload" }
func (evidenceUploadCmd) Description() string { return "Upload evidence files (up to 10)" }
func (evidenceUploadCmd) Usage() string {
	return "evidence-upload <title> <category> <file> [file...]"
}

func (evidenceUploadCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 3 {
		return ErrUsage
	}
	token, err := loadToken(cfg)
	if err != nil {
		return err
	}

	fields := map[string]string{
		"title":    args[0],
		"category": args[1],
	}
	var files []api.FilePart
	for _, p := range args[2:] {
		files = append(files, api.FilePart{Field: "files", Path: p})
	}

	resp, body, err := api.PostMultipart(endpoint(cfg, "/evidence/upload"), fields, files, token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("server: %s", api.ServerMessage(body))
	}

	var out struct {
		Count int `json:"count"`
		Files []struct {
			ID      string `json:"id"`
			FileURL string `json:"fileUrl"`
		} `json:"files"`
	}
	_ = json.Unmarshal(body, &out)
	fmt.Fprintf(Out, "Uploaded %d file(s)\n", out.Count)
	for _, f := range out.Files {
		fmt.Fprintf(Out, "  %s %s\n", f.ID, f.FileURL)
	}
	return nil
}

func init() { RegisterCmd(evidenceUploadCmd{}) }
