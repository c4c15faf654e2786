package commands

import (
	"GlucoTrack/internal/cli/api"
	"GlucoTrack/internal/config"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type backupCmd struct{}

func (backupCmd) Name() string        { return "backup" }
func (backupCmd) Description() string { return "Create or list server-side backups" }
func (backupCmd) Usage() string       { return "backup <create|list>" }

func (backupCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return ErrUsage
	}
	token, err := api.LoadToken(cfg.TokenFile)
	if err != nil {
		return errors.New("not logged in, run: gtcli login <email> <password>")
	}
	base := strings.TrimRight(cfg.ServerURL, "/")

	switch args[0] {
	case "create":
		resp, body, err := api.PostJSON(base+"/api/backup/create", nil, token)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			return fmt.Errorf("server error: %s", strings.TrimSpace(string(body)))
		}
		var out struct {
			Backup struct {
				ID       int64  `json:"id"`
				Filename string `json:"filename"`
				FileSize int64  `json:"fileSize"`
			} `json:"backup"`
		}
		if err := json.Unmarshal(body, &out); err != nil {
			return fmt.Errorf("invalid server response: %w", err)
		}
		fmt.Fprintf(Out, "Backup #%d created: %s (%d bytes)\n", out.Backup.ID, out.Backup.Filename, out.Backup.FileSize)
		return nil

	case "list":
		resp, body, err := api.GetJSON(base+"/api/backup/list", token)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server error: %s", strings.TrimSpace(string(body)))
		}
		var out struct {
			Backups []struct {
				ID        int64  `json:"id"`
				Filename  string `json:"filename"`
				FileSize  int64  `json:"fileSize"`
				Status    string `json:"status"`
				CreatedAt string `json:"createdAt"`
			} `json:"backups"`
		}
		if err := json.Unmarshal(body, &out); err != nil {
			return fmt.Errorf("invalid server response: %w", err)
		}
		if len(out.Backups) == 0 {
			fmt.Fprintln(Out, "No backups")
			return nil
		}
		for _, b := range out.Backups {
			fmt.Fprintf(Out, "#%d  %-10s %8d bytes  %s  %s\n", b.ID, b.Status, b.FileSize, b.CreatedAt, b.Filename)
		}
		return nil

	default:
		return ErrUsage
	}
}

func init() { RegisterCmd(backupCmd{}) }
