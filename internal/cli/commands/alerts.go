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

type alertsCmd struct{}

func (alertsCmd) Name() string        { return "alerts" }
func (alertsCmd) Description() string { return "Show recent alerts" }
func (alertsCmd) Usage() string       { return "alerts" }

func (alertsCmd) Run(_ context.Context, cfg *config.Config, _ []string) error {
	token, err := api.LoadToken(cfg.TokenFile)
	if err != nil {
		return errors.New("not logged in, run: gtcli login <email> <password>")
	}

	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/settings/alerts"
	resp, body, err := api.GetJSON(endpoint, token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return errors.New("session expired, login again")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server error: %s", strings.TrimSpace(string(body)))
	}

	var out struct {
		Alerts []struct {
			ID        int64  `json:"id"`
			Title     string `json:"title"`
			Message   string `json:"message"`
			Read      bool   `json:"read"`
			CreatedAt string `json:"createdAt"`
		} `json:"alerts"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("invalid server response: %w", err)
	}

	if len(out.Alerts) == 0 {
		fmt.Fprintln(Out, "No alerts")
		return nil
	}
	for _, a := range out.Alerts {
		marker := " "
		if !a.Read {
			marker = "*"
		}
		fmt.Fprintf(Out, "%s #%d  %s — %s  (%s)\n", marker, a.ID, a.Title, a.Message, a.CreatedAt)
	}
	return nil
}

func init() { RegisterCmd(alertsCmd{}) }
